// Package external implements the External Watcher Adapter (spec §4.5):
// a client for the Watchman-style daemon, translating pattern+options
// into the daemon's expression language and its file-change events into
// canonical FileChanges.
package external

// Request/response shapes for the subset of the daemon's wire contract
// spec §6 specifies. The daemon speaks JSON text frames over a
// bidirectional connection; BSER framing and any other daemon feature is
// out of scope (spec §1).

// capabilityCheckRequest asks the daemon whether it supports a set of
// required capabilities.
type capabilityCheckRequest struct {
	Command  string   `json:"command"`
	Required []string `json:"required"`
}

type capabilityCheckResponse struct {
	Capabilities map[string]bool `json:"capabilities"`
	Error        string          `json:"error,omitempty"`
}

// watchProjectRequest issues "watch-project <dir>".
type watchProjectRequest struct {
	Command string `json:"command"`
	Dir     string `json:"dir"`
}

type watchProjectResponse struct {
	Watch        string `json:"watch"`
	RelativePath string `json:"relative_path,omitempty"`
	Error        string `json:"error,omitempty"`
}

// subscribeRequest issues "subscribe <root> <name> <config>".
type subscribeRequest struct {
	Command string             `json:"command"`
	Root    string             `json:"root"`
	Name    string             `json:"name"`
	Config  subscriptionConfig `json:"config"`
}

type subscriptionConfig struct {
	Expression  interface{} `json:"expression"`
	Fields      []string    `json:"fields"`
	RelativeRoot string     `json:"relative_root,omitempty"`
}

type subscribeResponse struct {
	Subscribe string `json:"subscribe"`
	Error     string `json:"error,omitempty"`
}

// subscriptionPush is an asynchronously pushed subscription event.
type subscriptionPush struct {
	Subscription string       `json:"subscription"`
	Root         string       `json:"root,omitempty"`
	Files        []daemonFile `json:"files"`
}

// daemonFile is one entry in a subscriptionPush's Files list.
type daemonFile struct {
	Name    string `json:"name"`
	Exists  bool   `json:"exists"`
	Type    string `json:"type,omitempty"`
	Size    *int64 `json:"size,omitempty"`
	MtimeMS *int64 `json:"mtime_ms,omitempty"`
}

// buildExpression composes the subscription expression per spec §4.5
// step 3: ALLOF(typeFilter?, ANYOF(match(p, wholename, {includedotfiles:
// dot}) for p in patterns)).
func buildExpression(patterns []string, dot bool, onlyFiles, onlyDirectories bool) interface{} {
	anyOf := []interface{}{"anyof"}
	for _, p := range patterns {
		anyOf = append(anyOf, []interface{}{
			"match", p, "wholename",
			map[string]interface{}{"includedotfiles": dot},
		})
	}

	allOf := []interface{}{"allof"}
	if onlyDirectories {
		allOf = append(allOf, []interface{}{"type", "d"})
	} else if onlyFiles {
		allOf = append(allOf, []interface{}{"type", "f"})
	}
	allOf = append(allOf, anyOf)
	return allOf
}

// buildFields resolves the requested field list per spec §4.5 step 4:
// name, exists, type are always requested; size and mtime_ms are added
// when asked for.
func buildFields(wantSize, wantMtime bool) []string {
	fields := []string{"name", "exists", "type"}
	if wantSize {
		fields = append(fields, "size")
	}
	if wantMtime {
		fields = append(fields, "mtime_ms")
	}
	return fields
}
