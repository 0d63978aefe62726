package scanner

import "fmt"

func errUnexpectedByte(b byte, pos int) error {
	return fmt.Errorf("scanner: unexpected byte %q at offset %d", b, pos)
}

func errUnclosedQuote(pos int) error {
	return fmt.Errorf("scanner: unclosed quoted field starting at offset %d", pos)
}
