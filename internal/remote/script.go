package remote

import "strings"

// Quote single-quotes a string for a POSIX shell so that device paths,
// mapper names and mount points taken from user input cannot break out of
// the remote command they are spliced into.
func Quote(s string) string {
	if s == "" {
		return "''"
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// Script assembles a remote command line from trusted command words and
// untrusted arguments, joined with && so later steps only run when
// earlier ones succeed.
type Script struct {
	steps []string
}

func NewScript() *Script {
	return &Script{}
}

// Cmd appends one command. words are trusted literals (program names,
// flags); each arg is quoted before splicing.
func (s *Script) Cmd(words []string, args ...string) *Script {
	parts := append([]string{}, words...)
	for _, a := range args {
		parts = append(parts, Quote(a))
	}
	s.steps = append(s.steps, strings.Join(parts, " "))
	return s
}

func (s *Script) String() string {
	return strings.Join(s.steps, " && ")
}
