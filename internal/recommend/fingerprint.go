package recommend

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"aniboard/pkg/models"
)

// snapshotFingerprint hashes the parts of a library snapshot that influence
// the recommendation output: membership, status and progress of every entry.
// Two libraries of equal size but different content hash differently, and
// entry order does not matter.
func snapshotFingerprint(entries []models.LibraryEntry) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("%d|%s|%s|%d|%d|%d",
			e.MediaID, e.MediaKind, e.Status,
			e.ProgressVolume, e.ProgressChapter, e.ProgressEpisode))
	}
	sort.Strings(lines)

	h := sha256.New()
	for _, l := range lines {
		h.Write([]byte(l))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
