// Copyright (c) the luagent authors. All rights reserved.

package agent

// RunContext carries per-run state into tool handlers and dynamic
// system-prompt functions. One RunContext is created for each [Agent.Run]
// invocation and passed by reference throughout that run.
type RunContext struct {
	// Deps holds arbitrary caller-owned dependencies (database handles,
	// user identity, per-run credentials). The map contents belong to the
	// caller; the run loop only reads the reserved "api_key" key.
	Deps map[string]any

	// Messages is the live conversation for this run, updated as the loop
	// appends model responses and tool results.
	Messages []Message
}

// depsAPIKeyField is the reserved Deps key consulted when no API key was
// configured on the agent or its client.
const depsAPIKeyField = "api_key"

// depString reads a string dependency by key, or "" when absent or not a
// string.
func (rc *RunContext) depString(key string) string {
	if rc == nil || rc.Deps == nil {
		return ""
	}
	s, _ := rc.Deps[key].(string)
	return s
}
