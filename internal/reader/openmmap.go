package reader

// OpenMmap memory-maps path and returns a BufferedReader wrapping the
// whole file as one contiguous range, plus a cleanup func the caller must
// invoke when done. Used by ParseFile (unless DisableMmap is set), where
// re-reading in blocks buys nothing once the OS is already caching the
// pages.
func OpenMmap(path string) (*BufferedReader, func(), error) {
	data, cleanup, err := mmapFile(path)
	if err != nil {
		return nil, nil, err
	}
	return Wrap(data, DefaultBlockSize), cleanup, nil
}
