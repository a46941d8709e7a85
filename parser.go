package onpair

// longestPrefixSource is satisfied by both the trainer's mutable
// symtab.Table and the encoder's read-only symtab.FrozenTable, letting
// parseString drive either from the same code path — the spec requires
// parsing be deterministic given a symbol table, regardless of which phase
// is asking.
type longestPrefixSource interface {
	LongestPrefix(data []byte) (id uint16, length int, ok bool)
}

// parseString greedily tokenizes data via src's longest-prefix match. IDs
// 0-255 are always pre-seeded single-byte literals, so src never fails to
// match and parsing never stalls.
func parseString(src longestPrefixSource, data []byte) []uint16 {
	tokens := make([]uint16, 0, len(data))
	for len(data) > 0 {
		id, n, ok := src.LongestPrefix(data)
		if !ok {
			id, n = uint16(data[0]), 1
		}
		tokens = append(tokens, id)
		data = data[n:]
	}
	return tokens
}

// parseAll tokenizes every string in strings independently; tokens never
// span two strings.
func parseAll(src longestPrefixSource, strings []string) [][]uint16 {
	out := make([][]uint16, len(strings))
	for i, s := range strings {
		out[i] = parseString(src, []byte(s))
	}
	return out
}
