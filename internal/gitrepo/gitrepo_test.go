package gitrepo

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirName(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{
			name: "https URL",
			url:  "https://github.com/teemtee/tmt",
			want: filepath.Join("github.com", "teemtee", "tmt"),
		},
		{
			name: "git suffix stripped",
			url:  "https://github.com/teemtee/tmt.git",
			want: filepath.Join("github.com", "teemtee", "tmt"),
		},
		{
			name: "trailing slash",
			url:  "https://github.com/teemtee/fmf/",
			want: filepath.Join("github.com", "teemtee", "fmf"),
		},
		{
			name: "scp style ssh",
			url:  "git@github.com:teemtee/tmt.git",
			want: filepath.Join("github.com", "teemtee", "tmt"),
		},
		{
			name: "nested project path",
			url:  "https://gitlab.com/group/subgroup/project",
			want: filepath.Join("gitlab.com", "group", "subgroup", "project"),
		},
		{
			name:    "no host",
			url:     "/local/path/repo",
			wantErr: true,
		},
		{
			name:    "host only",
			url:     "https://github.com",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DirName(tt.url)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDirNameIsStable(t *testing.T) {
	a, err := DirName("https://github.com/teemtee/tmt")
	require.NoError(t, err)
	b, err := DirName("https://github.com/teemtee/tmt.git")
	require.NoError(t, err)
	assert.Equal(t, a, b, "same repository must map to the same directory")
}

func TestMaterializeRejectsInvalidURL(t *testing.T) {
	client := New(Options{BaseDir: t.TempDir()})

	_, err := client.Materialize(context.Background(), "not a url at all //", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid repository URL")
}

func TestMaterializeReusesExistingClone(t *testing.T) {
	base := t.TempDir()
	client := New(Options{BaseDir: base})

	// Simulate a finished clone; Materialize must not touch the network.
	dirName, err := DirName("https://github.com/teemtee/tmt")
	require.NoError(t, err)
	dest := filepath.Join(base, dirName)
	require.NoError(t, os.MkdirAll(filepath.Join(dest, ".git"), 0o755))

	got, err := client.Materialize(context.Background(), "https://github.com/teemtee/tmt", "")
	require.NoError(t, err)
	assert.Equal(t, dest, got)
}

func TestWithMaterializedSerializesSameRepository(t *testing.T) {
	base := t.TempDir()
	client := New(Options{BaseDir: base})

	const url = "https://github.com/teemtee/tmt"
	dirName, err := DirName(url)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(base, dirName, ".git"), 0o755))

	var active, overlapped atomic.Int32
	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := client.WithMaterialized(context.Background(), url, "", func(string) error {
				if active.Add(1) > 1 {
					overlapped.Store(1)
				}
				time.Sleep(5 * time.Millisecond)
				active.Add(-1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Zero(t, overlapped.Load(), "callbacks for the same repository must not run concurrently")
}
