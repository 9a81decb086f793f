package syncer

import "testing"

func TestGitCloneDir(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://github.com/conorfennell/knolcards.git", "repos/github.com/conorfennell/knolcards"},
		{"git@github.com:conorfennell/knolcards.git", "repos/github.com/conorfennell/knolcards"},
	}
	for _, c := range cases {
		got, err := gitCloneDir("repos", c.url)
		if err != nil {
			t.Fatalf("gitCloneDir(%q): %v", c.url, err)
		}
		if got != c.want {
			t.Errorf("gitCloneDir(%q) = %q, want %q", c.url, got, c.want)
		}
	}
}

func TestGitCloneDir_Unparseable(t *testing.T) {
	if _, err := gitCloneDir("repos", "not a url"); err == nil {
		t.Error("expected error for unparseable URL")
	}
}
