package wat

// Compile translates a module in WebAssembly text format to binary.
// Errors carry the source line of the offending form.
func Compile(src string) ([]byte, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	root, err := readTree(toks)
	if err != nil {
		return nil, err
	}
	mod, err := build(root)
	if err != nil {
		return nil, err
	}
	return mod.encode(), nil
}
