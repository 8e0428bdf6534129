package directory_test

import (
	"errors"
	"testing"

	"github.com/chancerylabs/chancery/internal/directory"
)

func TestMemberAt(t *testing.T) {
	group := directory.Group{Members: []string{"lead", "director", "vp"}}

	tests := []struct {
		name   string
		level  int
		want   string
		wantOK bool
	}{
		{"first", 0, "lead", true},
		{"middle", 1, "director", true},
		{"last", 2, "vp", true},
		{"past end", 3, "", false},
		{"negative", -1, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := group.MemberAt(tt.level)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("MemberAt(%d) = (%q, %v), want (%q, %v)", tt.level, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestCreateCommandValidate(t *testing.T) {
	tests := []struct {
		name    string
		cmd     directory.CreateCommand
		wantErr error
	}{
		{"valid", directory.CreateCommand{Name: "reviewers", Members: []string{"alice"}}, nil},
		{"missing name", directory.CreateCommand{Members: []string{"alice"}}, directory.ErrMissingName},
		{"no members", directory.CreateCommand{Name: "reviewers"}, directory.ErrNoMembers},
		{"blank member", directory.CreateCommand{Name: "reviewers", Members: []string{"alice", " "}}, directory.ErrNoMembers},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
