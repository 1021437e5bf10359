// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-03
// Last Modified: 2026-03-06

// Package targets extracts the issue a pull request declares it resolves
// from a "Targets:" line in the pull request body.
package targets

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

var (
	ErrEmptyBody     = errors.New("PR body is empty")
	ErrMissingLine   = errors.New("missing Targets line")
	ErrInvalidNumber = errors.New("invalid issue number in Targets line")
	ErrRepoMismatch  = errors.New("Targets line does not match configured issue repo")
)

var (
	fullPattern  = regexp.MustCompile(`(?im)^[ \t]*Targets:[ \t]*([^\s#/]+)/([^\s#]+)[ \t]*#[ \t]*(\d+)[ \t]*\r?$`)
	shortPattern = regexp.MustCompile(`(?im)^[ \t]*Targets:[ \t]*#[ \t]*(\d+)[ \t]*\r?$`)
)

// Reference is an issue in the configured issue repository.
type Reference struct {
	Owner  string
	Repo   string
	Number int
}

func (r Reference) String() string {
	return fmt.Sprintf("%s/%s#%d", r.Owner, r.Repo, r.Number)
}

// Parse reads the Targets line from body. The short form "Targets: #N" refers
// to the expected repository. A reference to any other repository is
// rejected with ErrRepoMismatch.
func Parse(body, expectedOwner, expectedRepo string) (*Reference, error) {
	if body == "" {
		return nil, ErrEmptyBody
	}

	owner, repo, digits := expectedOwner, expectedRepo, ""
	if m := fullPattern.FindStringSubmatch(body); m != nil {
		owner, repo, digits = m[1], m[2], m[3]
	} else if m := shortPattern.FindStringSubmatch(body); m != nil {
		digits = m[1]
	} else {
		return nil, ErrMissingLine
	}

	number, err := strconv.Atoi(digits)
	if err != nil || number <= 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidNumber, digits)
	}

	if owner != expectedOwner || repo != expectedRepo {
		return nil, fmt.Errorf("%w: %s/%s is not %s/%s", ErrRepoMismatch, owner, repo, expectedOwner, expectedRepo)
	}

	return &Reference{Owner: owner, Repo: repo, Number: number}, nil
}
