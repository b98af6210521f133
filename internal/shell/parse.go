package shell

import (
	"fmt"
	"strings"

	"github.com/kballard/go-shellquote"
)

const maxArgs = 128

// parse splits a command line into an argument vector and reports whether
// the job should run in the background. A trailing & is the sole background
// marker; single-quoted spans survive as one argument.
func parse(line string) ([]string, bool, error) {
	argv, err := shellquote.Split(line)
	if err != nil {
		return nil, false, err
	}
	if len(argv) == 0 {
		return nil, false, nil
	}
	if len(argv) > maxArgs {
		return nil, false, fmt.Errorf("too many arguments (max %d)", maxArgs)
	}

	background := false
	if strings.HasPrefix(argv[len(argv)-1], "&") {
		background = true
		argv = argv[:len(argv)-1]
	}
	return argv, background, nil
}
