package utils

import (
	"strconv"
	"strings"
)

/**
 * Parse version string into an integer component sequence
 * @param {string} versionStr - Dot-separated version string (e.g. "1.2.10")
 * @returns {[]int} Component sequence if parse succeeds, nil on failure
 * @returns {bool} True if every component parsed as a non-negative integer
 * @description
 * - Splits version string by dots and converts each part to an integer
 * - Any empty or non-numeric component fails the whole parse
 * @example
 * ver, ok := ParseVersionNumber("1.2.10")  // returns []int{1, 2, 10}, true
 * ver, ok := ParseVersionNumber("1.2.x")   // returns nil, false
 */
func ParseVersionNumber(versionStr string) ([]int, bool) {
	parts := strings.Split(versionStr, ".")
	ver := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return nil, false
		}
		ver = append(ver, n)
	}
	return ver, true
}

/**
 * Compare two version component sequences
 * @param {[]int} a - First version
 * @param {[]int} b - Second version
 * @returns {int} Negative if a<b, zero if equal, positive if a>b
 * @description
 * - Component-wise comparison in order; the first differing pair decides
 * - When one sequence is a prefix of the other, the longer one is greater
 */
func CompareVersion(a, b []int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] - b[i]
		}
	}
	return len(a) - len(b)
}

/**
 * Report whether the candidate version is newer than the current one
 * @param {string} candidate - Version string offered by the remote manifest
 * @param {string} current - Locally installed version string
 * @returns {bool} True if candidate is newer
 * @description
 * - Pure and deterministic, no side effects
 * - Both strings parsed as dot-separated integers and compared numerically,
 *   so "1.10.0" is newer than "1.2.0"
 * - If either string fails to parse, falls back to treating any string
 *   inequality as "newer" (kept for compatibility with existing manifests;
 *   do not extend this policy)
 */
func IsNewerVersion(candidate, current string) bool {
	a, okA := ParseVersionNumber(candidate)
	b, okB := ParseVersionNumber(current)
	if !okA || !okB {
		return candidate != current
	}
	return CompareVersion(a, b) > 0
}
