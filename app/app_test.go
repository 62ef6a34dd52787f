package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/paralang/paralang/config"
	"github.com/paralang/paralang/console"
	"github.com/paralang/paralang/paratranz"
)

// fakeParatranz serves a single project in memory.
type fakeParatranz struct {
	files        []paratranz.File
	translations map[int][]paratranz.Translation
	uploads      map[string]string
}

func (f *fakeParatranz) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != "tok" {
		http.Error(w, `{"message":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/projects/7/files":
		_ = json.NewEncoder(w).Encode(f.files)
	case r.Method == http.MethodPost && r.URL.Path == "/projects/7/files":
		file, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		data, _ := io.ReadAll(file)
		dir := r.FormValue("path")
		f.uploads[dir+"/"+hdr.Filename] = string(data)
		_, _ = io.WriteString(w, `{"status":"created"}`)
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/translation"):
		var id int
		for _, rf := range f.files {
			if r.URL.Path == "/projects/7/files/"+strconv.Itoa(rf.ID)+"/translation" {
				id = rf.ID
			}
		}
		entries, ok := f.translations[id]
		if !ok {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(entries)
	default:
		http.NotFound(w, r)
	}
}

func newTestEnv(t *testing.T, srv *httptest.Server) (*env, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Token, cfg.ProjectID = "tok", "7"
	cfg.APIURL = srv.URL
	cfg.SourceDir = filepath.Join(dir, "Source")
	cfg.OutputDir = filepath.Join(dir, "CNPack")
	cfg.Retries = 0

	var buf bytes.Buffer
	client := paratranz.NewClient(cfg.APIURL, cfg.ProjectID, cfg.Token)
	return &env{cfg: cfg, log: console.New(&buf), client: client}, &buf
}

func TestRunUpload(t *testing.T) {
	fake := &fakeParatranz{uploads: map[string]string{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	e, logs := newTestEnv(t, srv)
	p := filepath.Join(e.cfg.SourceDir, "assets", "mod", "lang", "en_us.lang")
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(t, os.WriteFile(p, []byte("# c\nitem.x=Thing\n"), 0644))

	require.NoError(t, runUpload(context.Background(), e, e.client))
	// multipart.FileHeader.Filename is the base name of the sent filename.
	require.Equal(t, "{\n    \"item.x\": \"Thing\"\n}", fake.uploads["assets/mod/lang/en_us.json"])
	require.Contains(t, logs.String(), "All files processed!")
}

func TestRunUpload_MissingSourceDir(t *testing.T) {
	srv := httptest.NewServer(&fakeParatranz{uploads: map[string]string{}})
	t.Cleanup(srv.Close)

	e, _ := newTestEnv(t, srv)
	require.Error(t, runUpload(context.Background(), e, e.client))
}

func TestRunDownload_PartialFailure(t *testing.T) {
	fake := &fakeParatranz{
		files: []paratranz.File{
			{ID: 1, Name: "a/en_us.json"},
			{ID: 2, Name: "b/en_us.json"},
			{ID: 3, Name: "c/en_us.json"},
		},
		translations: map[int][]paratranz.Translation{
			1: {{Key: "k", Original: "K", Translation: "一", Stage: paratranz.StageTranslated}},
			3: {{Key: "k", Original: "K", Translation: "三", Stage: paratranz.StageDisputed}},
		},
	}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	e, logs := newTestEnv(t, srv)
	require.NoError(t, runDownload(context.Background(), e, e.client))

	read := func(rel string) string {
		data, err := os.ReadFile(filepath.Join(e.cfg.OutputDir, rel, "zh_cn.lang"))
		require.NoError(t, err)
		return string(data)
	}
	require.Equal(t, "k=一\n", read("a"))
	require.Equal(t, "k=K\n", read("c"))
	require.NoFileExists(t, filepath.Join(e.cfg.OutputDir, "b", "zh_cn.lang"))
	require.Contains(t, logs.String(), "status 500")
}

func TestRunDownload_ListFailureIsFatal(t *testing.T) {
	srv := httptest.NewServer(&fakeParatranz{})
	t.Cleanup(srv.Close)

	e, _ := newTestEnv(t, srv)
	e.client.Token = "wrong"
	err := runDownload(context.Background(), e, e.client)
	require.Error(t, err)

	apiErr, ok := paratranz.IsAPIError(err)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestCommandsRejectArguments(t *testing.T) {
	for _, cmd := range []interface {
		SetArgs([]string)
		Execute() error
	}{NewUploadCmd(), NewDownloadCmd()} {
		cmd.SetArgs([]string{"unexpected"})
		require.Error(t, cmd.Execute())
	}
}

func TestCommandsFailWithoutConfig(t *testing.T) {
	t.Setenv("PARATRANZ_API_TOKEN", "")
	t.Setenv("PROJECT_ID", "")
	t.Setenv(config.FileEnv, "")
	t.Setenv("PARALANG_LANG", "en")

	cmd := NewDownloadCmd()
	cmd.SetArgs([]string{})
	err := cmd.Execute()
	require.Error(t, err)
	require.True(t, config.IsError(err))
}
