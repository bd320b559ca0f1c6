package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os/exec"
	"strings"

	"github.com/petasbytes/go-toolchat/internal/fsops"
	"github.com/petasbytes/go-toolchat/internal/safety"
)

type ShellInput struct {
	Cmd string `json:"cmd" jsonschema_description:"Shell command line to run with sh -c in the workspace root."`
}

// ShellResult is the shell tool payload. Text holds combined stdout and stderr.
type ShellResult struct {
	Text     string `json:"text"`
	ExitCode int    `json:"exit_code"`
}

// maxShellOutput caps the runes of command output returned to the model.
const maxShellOutput = 16_000

const shellTruncated = "-- output truncated --\n"

var ShellDefinition = ToolDefinition{
	Name:        "shell",
	Description: "Run a shell command in the workspace root and return its combined output and exit code.",
	Parameters:  ShellInputSchema,
	Function:    Shell,
}

var ShellInputSchema = GenerateSchema[ShellInput]()

// Shell runs in.Cmd with sh -c. A non-zero exit is reported in the payload,
// not as an error, so the model can see what failed.
func Shell(ctx context.Context, input json.RawMessage) (any, error) {
	var in ShellInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Cmd) == "" {
		return nil, safety.ToolError{Code: "ERR_EMPTY_COMMAND", Message: "cmd must not be empty"}
	}

	dir, err := fsops.WorkDir()
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, "sh", "-c", in.Cmd)
	cmd.Dir = dir
	cmd.Stdout = &out
	cmd.Stderr = &out

	res := ShellResult{}
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, err
		}
		res.ExitCode = exitErr.ExitCode()
	}

	text := out.String()
	if clamped, did := clampRunes(text, maxShellOutput); did {
		text = clamped + "\n" + shellTruncated
	}
	res.Text = text
	return res, nil
}
