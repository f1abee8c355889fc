package template

// isIdentByte reports whether ch can appear in a variable name ($NAME,
// {{NAME}}, {{#NAME}}...). Adapted from the identifier classification in
// the teacher's expression lexer (pkg/expression/lexer.go: isLetter/
// isDigit), merged into one predicate since this template language's names
// are simpler (no Unicode identifiers, no leading-digit restriction beyond
// what's needed to stop a scan).
func isIdentByte(ch byte) bool {
	return ch == '_' ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= 'a' && ch <= 'z') ||
		(ch >= '0' && ch <= '9')
}

// readIdent scans a maximal identifier run starting at pos, mirroring the
// teacher's readIdentifier: advance while isIdentByte holds, return the
// substring and the position right after it.
func readIdent(s string, pos int) (string, int) {
	start := pos
	for pos < len(s) && isIdentByte(s[pos]) {
		pos++
	}
	return s[start:pos], pos
}
