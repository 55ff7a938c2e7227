package cindex

// Token is one lexed token, fully copied into host values by Tokenize; it
// holds no native allocation.
type Token struct {
	Kind     TokenKind
	Spelling string
	Location SourceLocation
	Extent   SourceRange
}
