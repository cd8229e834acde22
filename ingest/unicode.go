package ingest

// FixUnicodeEscapes repairs the mojibake in Facebook JSON exports, which
// double-encode UTF-8 bytes as "\u00XX" escape sequences. Each such sequence
// is rewritten to the single raw byte 0xXX so the result decodes as proper
// UTF-8; every other byte, including escapes not of the \u00XX form, passes
// through untouched. The repair is lossy by nature and runs before JSON
// decoding; the analysis engine never re-validates text encoding.
func FixUnicodeEscapes(in []byte) []byte {
	out := make([]byte, 0, len(in))
	for i := 0; i < len(in); i++ {
		if in[i] == '\\' && i+5 < len(in) &&
			in[i+1] == 'u' && in[i+2] == '0' && in[i+3] == '0' &&
			isHexDigit(in[i+4]) && isHexDigit(in[i+5]) {
			out = append(out, hexValue(in[i+4])<<4|hexValue(in[i+5]))
			i += 5
			continue
		}
		out = append(out, in[i])
	}
	return out
}

func isHexDigit(b byte) bool {
	switch {
	case b >= '0' && b <= '9':
		return true
	case b >= 'a' && b <= 'f':
		return true
	case b >= 'A' && b <= 'F':
		return true
	}
	return false
}

func hexValue(b byte) byte {
	switch {
	case b >= '0' && b <= '9':
		return b - '0'
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10
	default:
		return b - 'A' + 10
	}
}
