package tools

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// Detect returns the status of each known tool.
func Detect(ctx context.Context) []Status {
	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
	}

	var statuses []Status
	for _, name := range KnownTools() {
		def, _ := Definition(name)
		statuses = append(statuses, detectOne(ctx, def))
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Tool < statuses[j].Tool })
	return statuses
}

func detectOne(ctx context.Context, def ToolDefinition) Status {
	status := Status{Tool: def.Name, Minimum: def.MinimumVersion, Paths: map[string]string{}}

	for _, bin := range def.Binaries {
		path, source, err := lookup(bin.ID)
		if err != nil {
			status.Error = err.Error()
			status.Hints = installHints(def.Name)
			return status
		}
		status.Paths[bin.ID] = path
		if bin.ID == def.Binaries[0].ID {
			status.Path = path
			status.Source = source
		}
	}

	version, err := readVersion(ctx, def, status.Paths)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	status.Version = version
	status.Satisfied = meetsMinimum(version, def.MinimumVersion)
	if !status.Satisfied {
		status.Error = fmt.Sprintf("version %s below minimum %s", version, def.MinimumVersion)
		status.Hints = installHints(def.Name)
	}
	return status
}
