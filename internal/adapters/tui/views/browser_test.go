package views

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"confluenz/internal/domain"
)

func buildTree(paths ...string) *domain.PageTree {
	var descs []domain.FileDescriptor
	for _, p := range paths {
		descs = append(descs, domain.FileDescriptor{Path: p, Kind: domain.KindBlob, VersionStamp: "s-" + p})
	}
	return domain.Build(descs)
}

func labels(rows []row) []string {
	var out []string
	for _, r := range rows {
		out = append(out, r.ref.Label())
	}
	return out
}

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestFlattenTree(t *testing.T) {
	tree := buildTree(
		"index.md",
		"guide/index.md",
		"guide/install/index.md",
		"guide/usage/index.md",
		"notes/.gitkeep",
		"about/index.md",
	)

	tests := []struct {
		name     string
		expanded map[string]bool
		want     []string
	}{
		{
			name: "collapsed",
			want: []string{"/", "about", "guide", "notes"},
		},
		{
			name:     "guide expanded",
			expanded: map[string]bool{"guide": true},
			want:     []string{"/", "about", "guide", "guide/install", "guide/usage", "notes"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := labels(flattenTree(tree, tt.expanded))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("rows mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFlattenTree_FolderRefs(t *testing.T) {
	rows := flattenTree(buildTree("notes/.gitkeep", "a/b/index.md"), nil)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	for _, r := range rows {
		if r.ref.StoragePath != "" {
			t.Errorf("%s is a folder and should have no storage path", r.ref.Label())
		}
	}
	if !rows[0].ref.HasChildren {
		t.Error("a should report children")
	}
}

func TestFlattenTree_Nil(t *testing.T) {
	if rows := flattenTree(nil, nil); rows != nil {
		t.Errorf("expected no rows, got %v", rows)
	}
}

func TestBrowser_SelectExpandsAncestors(t *testing.T) {
	m := NewBrowserModel(nil)
	m.SetTree(buildTree("index.md", "a/index.md", "a/b/index.md", "a/b/c/index.md"))

	if !m.Select([]string{"a", "b", "c"}) {
		t.Fatal("Select should find a/b/c")
	}
	ref, ok := m.SelectedPage()
	if !ok || ref.Label() != "a/b/c" {
		t.Fatalf("selected %q", ref.Label())
	}
	if ref.StoragePath != "a/b/c/index.md" {
		t.Errorf("storage path = %q", ref.StoragePath)
	}

	if !m.Select(nil) {
		t.Fatal("Select(nil) should find the home page")
	}
	if ref, _ := m.SelectedPage(); !ref.IsHome() {
		t.Errorf("expected home, got %q", ref.Label())
	}
}

func TestBrowser_SetTreeKeepsSelection(t *testing.T) {
	m := NewBrowserModel(nil)
	m.SetTree(buildTree("a/index.md", "b/index.md"))
	m.Select([]string{"b"})

	m.SetTree(buildTree("0/index.md", "a/index.md", "b/index.md"))

	ref, _ := m.SelectedPage()
	if ref.Label() != "b" {
		t.Errorf("selection moved to %q", ref.Label())
	}
}

func TestBrowser_Keys(t *testing.T) {
	tree := buildTree("index.md", "guide/index.md", "guide/install/index.md", "notes/.gitkeep")

	tests := []struct {
		name      string
		selection []string
		key       string
		want      tea.Msg
		wantErr   bool
	}{
		{
			name:      "edit page",
			selection: []string{"guide"},
			key:       "e",
			want:      OpenEditorMsg{StoragePath: "guide/index.md"},
		},
		{
			name:      "edit folder",
			selection: []string{"notes"},
			key:       "e",
			wantErr:   true,
		},
		{
			name:      "new page beside selection",
			selection: []string{"guide", "install"},
			key:       "n",
			want:      SwitchToCreateMsg{Mode: CreateModePage, Target: PageRef{Segments: []string{"guide"}}},
		},
		{
			name:      "subpage under folder",
			selection: []string{"notes"},
			key:       "s",
			wantErr:   true,
		},
		{
			name:      "rename home",
			selection: nil,
			key:       "r",
			wantErr:   true,
		},
		{
			name:      "rename page",
			selection: []string{"guide", "install"},
			key:       "r",
			want: SwitchToCreateMsg{Mode: CreateModeRename, Target: PageRef{
				Segments:    []string{"guide", "install"},
				StoragePath: "guide/install/index.md",
			}},
		},
		{
			name:      "delete page with children",
			selection: []string{"guide"},
			key:       "d",
			want: SwitchToDeleteMsg{Target: PageRef{
				Segments:    []string{"guide"},
				StoragePath: "guide/index.md",
				HasChildren: true,
			}},
		},
		{
			name:      "search",
			selection: nil,
			key:       "/",
			want:      SwitchToSearchMsg{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewBrowserModel(nil)
			m.SetTree(tree)
			if !m.Select(tt.selection) {
				t.Fatalf("could not select %v", tt.selection)
			}

			_, cmd := m.Update(keyPress(tt.key))

			if tt.wantErr {
				if !m.MessageErr {
					t.Errorf("expected an error message, got %q", m.Message)
				}
				if cmd != nil {
					t.Errorf("expected no command, got %T", cmd())
				}
				return
			}
			if cmd == nil {
				t.Fatal("expected a command")
			}
			if diff := cmp.Diff(tt.want, cmd()); diff != "" {
				t.Errorf("message mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBrowser_ToggleExpansion(t *testing.T) {
	m := NewBrowserModel(nil)
	m.SetTree(buildTree("guide/index.md", "guide/install/index.md"))

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if got := labels(m.rows); len(got) != 2 {
		t.Fatalf("expected guide expanded, rows %v", got)
	}

	m.Update(keyPress("j"))
	m.Update(keyPress("h"))
	if ref, _ := m.SelectedPage(); ref.Label() != "guide" {
		t.Errorf("h on a leaf should move to its parent, at %q", ref.Label())
	}

	m.Update(keyPress("h"))
	if got := labels(m.rows); len(got) != 1 {
		t.Errorf("expected guide collapsed, rows %v", got)
	}
}

func TestPageRef_Label(t *testing.T) {
	if got := (PageRef{}).Label(); got != "/" {
		t.Errorf("home label = %q", got)
	}
	if got := (PageRef{Segments: []string{"a", "b"}}).Label(); got != "a/b" {
		t.Errorf("label = %q", got)
	}
}

func TestBrowser_SelectBeforeTreeArrives(t *testing.T) {
	m := NewBrowserModel(nil)
	m.SetTree(buildTree("a/index.md"))

	if m.Select([]string{"b", "c"}) {
		t.Fatal("b/c is not in the tree yet")
	}
	m.SetTree(buildTree("a/index.md", "b/index.md", "b/c/index.md"))

	if ref, _ := m.SelectedPage(); ref.Label() != "b/c" {
		t.Errorf("selected %q, want b/c", ref.Label())
	}
}
