package artifacts

import (
	"strings"

	"idea-analyzer/internal/shared/util"
)

const (
	DefaultBaseName = "idea_analysis"
	fileExt         = ".txt"
)

// FileName derives the artifact file name from the submission's source name. An empty
// source (typed text) or one with nothing safe left maps to idea_analysis.txt.
func FileName(sourceName string) string {
	if strings.TrimSpace(sourceName) == "" {
		return DefaultBaseName + fileExt
	}
	base, err := util.SafeBaseName(sourceName)
	if err != nil {
		return DefaultBaseName + fileExt
	}
	return base + fileExt
}

// Key namespaces fileName under the owning session.
func Key(sessionHash, fileName string) string {
	return sessionHash + "/" + fileName
}
