package organizer

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strconv"

	"sorter/internal/fileutil"
)

// candidateName returns stem for n == 0 and stem_n otherwise.
func candidateName(stem string, n int) string {
	if n == 0 {
		return stem
	}
	return stem + "_" + strconv.Itoa(n)
}

// nextFree returns the first counter >= from whose candidate passes free.
func nextFree(stem string, from int, free func(candidate string) (bool, error)) (int, error) {
	for n := from; ; n++ {
		ok, err := free(candidateName(stem, n))
		if err != nil {
			return 0, err
		}
		if ok {
			return n, nil
		}
	}
}

func fileFree(dir, suffix string) func(string) (bool, error) {
	return func(candidate string) (bool, error) {
		exists, err := fileutil.Exists(filepath.Join(dir, candidate+suffix))
		return !exists, err
	}
}

// archiveFree requires both the archive-named file and the extraction
// directory to be absent.
func archiveFree(dir, suffix string) func(string) (bool, error) {
	return func(candidate string) (bool, error) {
		for _, name := range []string{candidate + suffix, candidate} {
			exists, err := fileutil.Exists(filepath.Join(dir, name))
			if err != nil || exists {
				return false, err
			}
		}
		return true, nil
	}
}

// resolveName returns the first of stem, stem_1, stem_2, ... for which
// dir/<candidate><suffix> does not exist. It only looks; claimFile turns the
// answer into a reservation.
func resolveName(dir, stem, suffix string) (string, error) {
	n, err := nextFree(stem, 0, fileFree(dir, suffix))
	if err != nil {
		return "", err
	}
	return candidateName(stem, n), nil
}

// claimFile reserves dir/<candidate><suffix> by creating an empty placeholder
// with O_EXCL and returns its path. A candidate taken between lookup and
// create exists afterwards, so the next lookup skips it.
func claimFile(dir, stem, suffix string) (string, error) {
	for {
		name, err := resolveName(dir, stem, suffix)
		if err != nil {
			return "", err
		}
		path := filepath.Join(dir, name+suffix)
		err = fileutil.ClaimFile(path)
		if err == nil {
			return path, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", err
		}
	}
}

// claimArchiveDir reserves the extraction directory dir/<candidate> for an
// archive whose original suffix is suffix.
func claimArchiveDir(dir, stem, suffix string) (string, error) {
	free := archiveFree(dir, suffix)
	n := 0
	for {
		next, err := nextFree(stem, n, free)
		if err != nil {
			return "", err
		}
		path := filepath.Join(dir, candidateName(stem, next))
		err = fileutil.ClaimDir(path)
		if err == nil {
			return path, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", err
		}
		n = next + 1
	}
}
