package handlers

import (
	"fmt"
	"strconv"
	"strings"
)

const callbackPrefix = "ps"

// Telegram rejects callback data longer than this.
const maxCallbackBytes = 64

const (
	actionTab      = "tab"
	actionPreset   = "preset"
	actionCategory = "cat"
	actionOption   = "opt"
	actionBack     = "back"
	actionProceed  = "proceed"
	actionReset    = "reset"
	actionCopy     = "copy"
	actionGenerate = "gen"
	actionSettings = "settings"
	actionNoop     = "noop"
)

type callback struct {
	Owner  int64
	Action string
	Args   []string
}

func (c callback) arg(i int) string {
	if i < 0 || i >= len(c.Args) {
		return ""
	}
	return c.Args[i]
}

func cb(ownerID int64, parts ...string) string {
	return fmt.Sprintf("%s:%d:%s", callbackPrefix, ownerID, strings.Join(parts, ":"))
}

// parseCallback decodes data produced by cb. Foreign or malformed data
// reports false.
func parseCallback(data string) (callback, bool) {
	data = strings.TrimSpace(data)
	if len(data) > maxCallbackBytes || !strings.HasPrefix(data, callbackPrefix+":") {
		return callback{}, false
	}

	parts := strings.Split(data, ":")
	if len(parts) < 3 || parts[2] == "" {
		return callback{}, false
	}

	owner, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return callback{}, false
	}

	return callback{Owner: owner, Action: parts[2], Args: parts[3:]}, true
}
