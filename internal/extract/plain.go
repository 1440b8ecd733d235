package extract

import "unicode/utf8"

func decodePlain(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", ErrDecode
	}
	return string(data), nil
}
