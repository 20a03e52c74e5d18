package dist

import (
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Compare orders two Tomcat version strings (e.g. "9.0.113", "11.0.0-M26").
// Returns -1, 0, or 1. Numeric segments are compared component-wise, never
// lexically, so "9.10" sorts above "9.9". Pre-release suffixes such as "-M1"
// rank below the corresponding final release, following semver semantics.
func Compare(a, b string) int {
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)
	if errA == nil && errB == nil {
		return va.Compare(vb)
	}

	// Fallback for strings semver rejects (e.g. four numeric segments).
	return compareSegments(a, b)
}

// compareSegments compares dotted numeric versions component-wise.
// A missing segment counts as zero. Pre-release markers appear either as a
// dash suffix ("-M4") or, in old Tomcat 9 listings, as a dotted segment
// (".M4"); both rank below the corresponding final release.
func compareSegments(a, b string) int {
	aBase, aPre, _ := strings.Cut(a, "-")
	bBase, bPre, _ := strings.Cut(b, "-")

	as := strings.Split(aBase, ".")
	bs := strings.Split(bBase, ".")

	n := len(as)
	if len(bs) > n {
		n = len(bs)
	}

	for i := 0; i < n; i++ {
		ai, aok := segmentValue(as, i)
		bi, bok := segmentValue(bs, i)

		// A non-numeric segment is a pre-release marker and sorts below
		// any numeric or missing segment.
		if !aok || !bok {
			switch {
			case !aok && bok:
				return -1
			case aok && !bok:
				return 1
			case as[i] != bs[i]:
				return strings.Compare(as[i], bs[i])
			}
			continue
		}

		if ai != bi {
			if ai < bi {
				return -1
			}
			return 1
		}
	}

	switch {
	case aPre == bPre:
		return 0
	case aPre == "":
		return 1
	case bPre == "":
		return -1
	case aPre < bPre:
		return -1
	default:
		return 1
	}
}

// segmentValue returns the numeric value of segment i, or ok=false when the
// segment exists but is not numeric. A missing segment is numeric zero.
func segmentValue(segs []string, i int) (int, bool) {
	if i >= len(segs) {
		return 0, true
	}
	n, err := strconv.Atoi(segs[i])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Major returns the leading numeric segment of a version string.
func Major(version string) (int, error) {
	head, _, _ := strings.Cut(version, ".")
	return strconv.Atoi(head)
}
