package loaders

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// SceneInfo describes a scene file found on disk
type SceneInfo struct {
	ID          string // Value accepted by -scene
	DisplayName string
	Description string
	FilePath    string
}

// ListScenes scans dir for JSON scene files. Files that fail to parse are returned
// in skipped so callers can report them without aborting the listing.
func ListScenes(dir string) (scenes []SceneInfo, skipped map[string]error, err error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	skipped = make(map[string]error)
	for _, filePath := range files {
		info, err := ReadSceneInfo(filePath)
		if err != nil {
			skipped[filePath] = err
			continue
		}
		scenes = append(scenes, info)
	}

	// Sort scenes by display name
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})
	return scenes, skipped, nil
}

// ReadSceneInfo loads a scene file and extracts its listing metadata
func ReadSceneInfo(filePath string) (SceneInfo, error) {
	id := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))

	sf, err := LoadScene(filePath)
	if err != nil {
		return SceneInfo{}, err
	}

	info := SceneInfo{
		ID:          id,
		DisplayName: sf.Name,
		Description: sf.Description,
		FilePath:    filePath,
	}
	if info.DisplayName == "" {
		info.DisplayName = titleCase(id)
	}
	return info, nil
}

// titleCase converts a filename-style string to title case
// e.g., "two-lights" -> "Two Lights"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
