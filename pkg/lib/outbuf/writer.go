package outbuf

// Write implements io.Writer so a Buffer can be plugged directly into
// exec.Cmd.Stdout / exec.Cmd.Stderr. It appends a copy of p because callers
// may reuse the slice after Write returns.
//
// A nil receiver discards the input, which lets spawn sites skip nil checks
// for non-piped stdio.
func (b *Buffer) Write(p []byte) (int, error) {
	if b == nil {
		return len(p), nil
	}
	if len(p) == 0 {
		return 0, nil
	}

	cp := append([]byte(nil), p...)
	b.Append(cp)

	return len(p), nil
}
