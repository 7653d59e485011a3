package checkmk

import (
	"fmt"
	"strings"
)

// Style selects one of the Checkmk plaintext contracts.
type Style string

const (
	StyleLocalCheck        Style = "checkmk_local_check"
	StyleDatasourceProgram Style = "checkmk_datasource_program"
)

func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "checkmk_local_check", "local_check", "local", "":
		return StyleLocalCheck, nil
	case "checkmk_datasource_program", "datasource_program", "datasource":
		return StyleDatasourceProgram, nil
	default:
		return "", fmt.Errorf("unknown output style %q", s)
	}
}
