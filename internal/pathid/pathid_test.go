package pathid

import (
	"strings"
	"testing"
)

func TestValidateBranchName(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"simple", "feat-login", false},
		{"single char", "x", false},
		{"nested slashes", "feature/auth/oauth", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"dotdot", "feat..login", true},
		{"leading dash", "-force", true},
		{"embedded space", "feat login", true},
		{"control char", "feat\x01login", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateBranchName(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateBranchName(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
		})
	}
}

func TestValidateGitArg(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"plain", "origin", false},
		{"leading dash", "--upload-pack=evil", true},
		{"double colon", "refs::weird", true},
		{"control char", "foo\nbar", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGitArg(tt.in, "remote")
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateGitArg(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
		})
	}
}

func TestSanitizeForPathNeverContainsSlash(t *testing.T) {
	inputs := []string{"feature/auth/oauth", "plain", "a/b/c/d", ""}
	for _, in := range inputs {
		out := SanitizeForPath(in)
		if strings.Contains(out, "/") {
			t.Fatalf("SanitizeForPath(%q) = %q still contains '/'", in, out)
		}
	}
}

func TestKildBranchName(t *testing.T) {
	if got := KildBranchName("feat-login"); got != "kild/feat-login" {
		t.Fatalf("KildBranchName = %q, want kild/feat-login", got)
	}
}

func TestIsKildBranchAndStrip(t *testing.T) {
	tests := []struct {
		in       string
		wantOK   bool
		wantRest string
	}{
		{"kild/feat-login", true, "feat-login"},
		{"kild_feat-login", true, "feat-login"},
		{"main", false, ""},
		{"feature/kild/not-a-prefix-match", false, ""},
	}
	for _, tt := range tests {
		if !IsKildBranch(tt.in) != !tt.wantOK {
			t.Fatalf("IsKildBranch(%q) = %v, want %v", tt.in, IsKildBranch(tt.in), tt.wantOK)
		}
		rest, ok := StripKildBranchPrefix(tt.in)
		if ok != tt.wantOK || rest != tt.wantRest {
			t.Fatalf("StripKildBranchPrefix(%q) = (%q, %v), want (%q, %v)", tt.in, rest, ok, tt.wantRest, tt.wantOK)
		}
	}
}

func TestWorktreePath(t *testing.T) {
	got := WorktreePath("/home/u/.kild", "myproj", "feature/auth/oauth")
	want := "/home/u/.kild/worktrees/myproj/feature-auth-oauth"
	if got != want {
		t.Fatalf("WorktreePath = %q, want %q", got, want)
	}
}

func TestDeriveProjectNameFromRemote(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://github.com/acme/widgets.git", "widgets"},
		{"https://github.com/acme/widgets", "widgets"},
		{"git@github.com:acme/widgets.git", "widgets"},
		{"git@github.com:acme/widgets", "widgets"},
		{"", "unknown"},
		{"not a url at all !!", "unknown"},
	}
	for _, tt := range tests {
		if got := DeriveProjectNameFromRemote(tt.url); got != tt.want {
			t.Fatalf("DeriveProjectNameFromRemote(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestGenerateProjectIDDeterministic(t *testing.T) {
	a := GenerateProjectID("/home/u/code/widgets")
	b := GenerateProjectID("/home/u/code/widgets")
	c := GenerateProjectID("/home/u/code/other")
	if a != b {
		t.Fatalf("GenerateProjectID not deterministic: %q != %q", a, b)
	}
	if a == c {
		t.Fatalf("GenerateProjectID collided for distinct paths")
	}
	if len(a) != 12 {
		t.Fatalf("GenerateProjectID length = %d, want 12", len(a))
	}
}

func TestSessionIDAndSafe(t *testing.T) {
	id := SessionID("abc123def456", "feature/auth/oauth")
	if id != "abc123def456/feature/auth/oauth" {
		t.Fatalf("SessionID = %q", id)
	}
	safe := SafeSessionID(id)
	if strings.Contains(safe, "/") {
		t.Fatalf("SafeSessionID(%q) = %q still contains '/'", id, safe)
	}
}

func TestExtractCommandName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"claude --resume", "claude"},
		{"/usr/local/bin/claude-code --flag", "claude-code"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ExtractCommandName(tt.in); got != tt.want {
			t.Fatalf("ExtractCommandName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
