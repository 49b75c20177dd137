package cli

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	DocumentKind = "document"
	JobKind      = "job"
)

func plural(kind string) string {
	return kind + "s"
}

// parseAndValidateKindId splits TYPE or TYPE/ID into its parts. The
// singular and plural forms of TYPE are both accepted.
func parseAndValidateKindId(arg string) (string, *uuid.UUID, error) {
	kind, idStr, _ := strings.Cut(arg, "/")
	kind = singular(kind)
	if kind != DocumentKind && kind != JobKind {
		return "", nil, fmt.Errorf("invalid resource kind: %s", kind)
	}

	var id *uuid.UUID
	if len(idStr) > 0 {
		parsed, err := uuid.Parse(idStr)
		if err != nil {
			return "", nil, fmt.Errorf("invalid resource id: %w", err)
		}
		id = &parsed
	}
	return kind, id, nil
}

func singular(kind string) string {
	if kind == plural(DocumentKind) {
		return DocumentKind
	}
	if kind == plural(JobKind) {
		return JobKind
	}
	return kind
}
