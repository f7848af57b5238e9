package script

// Step operations.
const (
	OpLoad         = "load"
	OpUnload       = "unload"
	OpUnloadOthers = "unloadOthers"
)

// Step is one request issued at frame F
type Step struct {
	F            int      `json:"f"`                      // Frame number
	Op           string   `json:"op"`                     // load, unload or unloadOthers
	Scenes       []string `json:"scenes,omitempty"`       // Targets, in order
	Active       string   `json:"active,omitempty"`       // Scene to activate after loading
	UnloadOthers bool     `json:"unloadOthers,omitempty"` // Unload non-persistent scenes first
	Fade         bool     `json:"fade,omitempty"`         // Mask with a fade
}

// Script contains a frame-indexed list of loader requests
type Script struct {
	Version   string `json:"version"`
	StartTime string `json:"startTime,omitempty"`
	Steps     []Step `json:"steps"`
}
