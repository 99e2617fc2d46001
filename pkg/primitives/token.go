package primitives

// TokenClass describes why a token is, or is not, a usable word.
type TokenClass int

const (
	TokenValid TokenClass = iota
	TokenWrongLength
	TokenBadChar
	TokenRepeated
)

func (c TokenClass) String() string {
	switch c {
	case TokenValid:
		return "valid"
	case TokenWrongLength:
		return "wrong length"
	case TokenBadChar:
		return "invalid character"
	case TokenRepeated:
		return "repeated letter"
	default:
		return "unknown"
	}
}

// ClassifyToken reports the first problem found in a token, scanning left to right after
// checking its length.
func ClassifyToken(word string) TokenClass {
	_, class := scan(word)
	return class
}

// IsFiveUniqueLetters reports whether a word is exactly five distinct lowercase letters.
func IsFiveUniqueLetters(word string) bool {
	return ClassifyToken(word) == TokenValid
}
