package lexer

// skipTrivia drops whitespace and comments. The preprocessor normally strips
// comments already; raw input (the parse command, fuzzing) still has them.
func (lx *Lexer) skipTrivia() {
	for !lx.cursor.EOF() {
		r := lx.cursor.Peek()
		switch {
		case isSpace(r):
			lx.cursor.Bump()
		case r == '/' && lx.cursor.PeekAt(1) == '/':
			for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
		case r == '/' && lx.cursor.PeekAt(1) == '*':
			start := lx.cursor.Mark()
			lx.cursor.Bump()
			lx.cursor.Bump()
			closed := false
			for !lx.cursor.EOF() {
				if lx.cursor.Peek() == '*' && lx.cursor.PeekAt(1) == '/' {
					lx.cursor.Bump()
					lx.cursor.Bump()
					closed = true
					break
				}
				lx.cursor.Bump()
			}
			if !closed {
				lx.report("UnterminatedComment", lx.cursor.SpanFrom(start), "unterminated block comment")
			}
		default:
			return
		}
	}
}
