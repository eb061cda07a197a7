package rules

// ForbiddenObject names an entity that must not be placed.
type ForbiddenObject struct {
	Name     string `toml:"name"`
	DataType string `toml:"data_type"`
	Class    string `toml:"class"`
	Message  string `toml:"message"`
}

// Config carries the thresholds and class names the rules check against.
type Config struct {
	SpectatorClass        string            `toml:"spectator_class"`
	ContractorClass       string            `toml:"contractor_class"`
	ContractorDescription string            `toml:"contractor_description"`
	ShopProperties        []string          `toml:"shop_properties"`
	RequiredShops         int               `toml:"required_shops"`
	TriggerMinInterval    float64           `toml:"trigger_min_interval"`
	Forbidden             []ForbiddenObject `toml:"forbidden"`
	Disable               []string          `toml:"disable"`
}

// DefaultConfig returns the stock rule settings.
func DefaultConfig() Config {
	return Config{
		SpectatorClass:        "synixe_spectator_screen",
		ContractorClass:       "synixe_contractors_Unit_I_Contractor",
		ContractorDescription: "Contractor",
		ShopProperties:        []string{"crate_client_gear_attribute_shop", "persistent_gear_shop_arsenal_attribute_shop"},
		RequiredShops:         2,
		TriggerMinInterval:    0.6,
		Forbidden: []ForbiddenObject{
			{
				Name:     "cup_parking",
				DataType: "Object",
				Class:    "CUP_sign_parking",
				Message:  `Use the vanilla "Parking Lot" (RoadSign_Livonia_parking) sign, the CUP sign floats above the ground`,
			},
			{
				Name:     "zeus",
				DataType: "Logic",
				Class:    "ModuleCurator_F",
				Message:  "Zeus modules should not be placed in missions. (You can use ACE interact for local testing)",
			},
		},
	}
}
