package stamp

import (
	"fmt"
	"strings"
)

// doneSuffix is inserted before the extension in keep-original mode.
const doneSuffix = "_完了"

// splitExt splits a filename at its last dot. A name without a dot has an
// empty extension; the extension keeps its leading dot.
func splitExt(name string) (stem, ext string) {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[:i], name[i:]
	}
	return name, ""
}

// OutputName derives the output filename for one processed document.
// Keep-original mode appends the done suffix before the extension (or to the
// whole name when there is none); replace mode reuses the input name.
func OutputName(name string, keepOriginal bool) string {
	if !keepOriginal {
		return name
	}
	stem, ext := splitExt(name)
	return stem + doneSuffix + ext
}

// ExistsFunc probes a destination for a name already in use.
type ExistsFunc func(name string) (bool, error)

// UniqueName returns the first free variant of name at a destination:
// the name itself, then {stem}_1{ext}, {stem}_2{ext}, and so on. The search
// is unbounded and stops at the first available slot, so an existing file is
// never reused.
func UniqueName(name string, exists ExistsFunc) (string, error) {
	taken, err := exists(name)
	if err != nil {
		return "", err
	}
	if !taken {
		return name, nil
	}
	stem, ext := splitExt(name)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, i, ext)
		taken, err := exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
}
