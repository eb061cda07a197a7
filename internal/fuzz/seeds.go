package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB: ограничение для тестового корпуса
	maxFuzzInput = 1 << 16
)

var seedExts = map[string]bool{".sqm": true, ".ext": true, ".hpp": true, ".inc": true}

// languageSeeds are small inputs covering every construct of the format.
var languageSeeds = []string{
	"version=54;\n",
	"class Mission\n{\n\tclass Intel\n\t{\n\t\thour=6;\n\t};\n};\n",
	"class A : B {};\nclass C;\ndelete D;\n",
	"position[]={1.5,-2,3e2};\nitems[]+={\"a\",{1,2}};\n",
	"text=\"quoted \"\"inner\"\" text\";\n",
	"author = \"Synixe\";\nOnLoadName = \"Operation\";\n",
	"#define NAME \"x\"\nvalue = NAME;\n#ifdef NAME\na=1;\n#else\na=2;\n#endif\n",
	"// comment\n/* block\ncomment */ x=0x1F;\n",
	"class Item0\n{\n\tdataType=\"Trigger\";\n\tclass Attributes { isServerOnly=1; interval=0.5; };\n\tid=3;\n};\n",
	"class Links { class Item0 { linkID=0; item0=3; item1=4; class CustomData { type=\"WaypointActivation\"; }; }; };\n",
	"a=;\nclass {\n};};\n",
	"\ufeffb=1;\r\nc=2;\r\n",
	"unterminated=\"abc\n",
}

func addCorpusSeeds(f *testing.F) {
	addTestdataSeeds(f)
	for _, s := range languageSeeds {
		f.Add([]byte(s))
	}
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || !seedExts[filepath.Ext(path)] {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}
