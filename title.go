package keepsake

// titleRuneLimit is how much of a text body becomes its derived title.
const titleRuneLimit = 10

// DeriveTitle returns the display title for a text body: the first ten
// characters of the body. Counting is by rune so multibyte text never
// truncates mid-character.
func DeriveTitle(body string) string {
	runes := []rune(body)
	if len(runes) <= titleRuneLimit {
		return body
	}
	return string(runes[:titleRuneLimit])
}
