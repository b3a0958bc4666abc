package github

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"

	"confluenz/internal/domain"
)

// Options configures a Store
type Options struct {
	Repository  string // "owner/name"
	Branch      string
	APIURL      string // empty for api.github.com
	TokenSource oauth2.TokenSource
	Committer   *github.CommitAuthor
	Logger      *slog.Logger
	HTTPClient  *http.Client // base transport, wrapped with TokenSource
}

// Store implements ports.RemoteStore over a branch of a GitHub repository
// using the contents API. Version stamps are blob SHAs.
type Store struct {
	client    *github.Client
	owner     string
	repo      string
	branch    string
	committer *github.CommitAuthor
	logger    *slog.Logger
}

// NewStore creates a store for opts.Repository
func NewStore(ctx context.Context, opts Options) (*Store, error) {
	owner, repo, ok := strings.Cut(opts.Repository, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return nil, fmt.Errorf("repository must be owner/name, got %q", opts.Repository)
	}

	httpClient := opts.HTTPClient
	if opts.TokenSource != nil {
		if httpClient != nil {
			ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
		}
		httpClient = oauth2.NewClient(ctx, opts.TokenSource)
	}

	client := github.NewClient(httpClient)
	if opts.APIURL != "" {
		base, err := url.Parse(strings.TrimSuffix(opts.APIURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid API URL %q: %w", opts.APIURL, err)
		}
		client.BaseURL = base
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	branch := opts.Branch
	if branch == "" {
		branch = "main"
	}

	return &Store{
		client:    client,
		owner:     owner,
		repo:      repo,
		branch:    branch,
		committer: opts.Committer,
		logger:    logger,
	}, nil
}

// List returns the recursive tree of the branch head
func (s *Store) List(ctx context.Context) ([]domain.FileDescriptor, error) {
	tree, resp, err := s.client.Git.GetTree(ctx, s.owner, s.repo, s.branch, true)
	if err != nil {
		// An empty repository has no tree yet
		if statusOf(resp, err) == http.StatusConflict {
			return nil, nil
		}
		return nil, mapError("list", s.branch, resp, err, opRead)
	}

	if tree.GetTruncated() {
		s.logger.Warn("repository tree truncated, some pages are missing", "repo", s.owner+"/"+s.repo)
	}

	out := make([]domain.FileDescriptor, 0, len(tree.Entries))
	for _, e := range tree.Entries {
		var kind domain.EntryKind
		switch e.GetType() {
		case "blob":
			kind = domain.KindBlob
		case "tree":
			kind = domain.KindTree
		default:
			continue // submodules
		}
		d := domain.FileDescriptor{Path: e.GetPath(), Kind: kind}
		if kind == domain.KindBlob {
			d.VersionStamp = e.GetSHA()
		}
		out = append(out, d)
	}
	return out, nil
}

// Read returns the decoded content of the file at path on the branch
func (s *Store) Read(ctx context.Context, path string) (*domain.Blob, error) {
	file, _, resp, err := s.client.Repositories.GetContents(ctx, s.owner, s.repo, path,
		&github.RepositoryContentGetOptions{Ref: s.branch})
	if err != nil {
		return nil, mapError("read", path, resp, err, opRead)
	}
	if file == nil {
		return nil, fmt.Errorf("read %s: %w: path is a directory", path, domain.ErrNotFound)
	}

	// Files over 1 MB come without inline content
	if file.GetEncoding() == "none" {
		raw, resp, err := s.client.Git.GetBlobRaw(ctx, s.owner, s.repo, file.GetSHA())
		if err != nil {
			return nil, mapError("read blob", path, resp, err, opRead)
		}
		return &domain.Blob{Content: raw, VersionStamp: file.GetSHA()}, nil
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, fmt.Errorf("read %s: decode %q content: %w", path, file.GetEncoding(), err)
	}
	return &domain.Blob{Content: []byte(content), VersionStamp: file.GetSHA()}, nil
}

// Write commits content to path. An empty expectedStamp creates the file.
func (s *Store) Write(ctx context.Context, path string, content []byte, expectedStamp string) (string, error) {
	// A nil slice would be sent as "content": null, which the API rejects
	if content == nil {
		content = []byte{}
	}
	opts := &github.RepositoryContentFileOptions{
		Content:   content,
		Branch:    github.String(s.branch),
		Committer: s.committer,
	}

	var (
		res  *github.RepositoryContentResponse
		resp *github.Response
		err  error
	)
	if expectedStamp == "" {
		opts.Message = github.String("create " + path)
		res, resp, err = s.client.Repositories.CreateFile(ctx, s.owner, s.repo, path, opts)
		if err != nil {
			return "", mapError("create", path, resp, err, opCreate)
		}
	} else {
		opts.Message = github.String("update " + path)
		opts.SHA = github.String(expectedStamp)
		res, resp, err = s.client.Repositories.UpdateFile(ctx, s.owner, s.repo, path, opts)
		if err != nil {
			return "", mapError("update", path, resp, err, opUpdate)
		}
	}

	return res.GetContent().GetSHA(), nil
}

// Delete removes path if its blob SHA is still stamp
func (s *Store) Delete(ctx context.Context, path, stamp string) error {
	opts := &github.RepositoryContentFileOptions{
		Message:   github.String("delete " + path),
		SHA:       github.String(stamp),
		Branch:    github.String(s.branch),
		Committer: s.committer,
	}

	_, resp, err := s.client.Repositories.DeleteFile(ctx, s.owner, s.repo, path, opts)
	if err != nil {
		return mapError("delete", path, resp, err, opUpdate)
	}
	return nil
}

type opKind int

const (
	opRead opKind = iota
	opCreate
	opUpdate
)

func statusOf(resp *github.Response, err error) int {
	var er *github.ErrorResponse
	if errors.As(err, &er) && er.Response != nil {
		return er.Response.StatusCode
	}
	if resp != nil && resp.Response != nil {
		return resp.StatusCode
	}
	return 0
}

// mapError translates a GitHub API failure into a domain error kind
func mapError(op, path string, resp *github.Response, err error, kind opKind) error {
	var rate *github.RateLimitError
	var abuse *github.AbuseRateLimitError
	if errors.As(err, &rate) || errors.As(err, &abuse) {
		return fmt.Errorf("%s %s: %w: %v", op, path, domain.ErrRemoteUnavailable, err)
	}

	var target error
	switch status := statusOf(resp, err); {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		target = domain.ErrAuthFailure
	case status == http.StatusNotFound:
		target = domain.ErrNotFound
	case status == http.StatusConflict:
		target = domain.ErrVersionConflict
	case status == http.StatusUnprocessableEntity && kind == opCreate && shaMissing(err):
		target = domain.ErrAlreadyExists
	case status == http.StatusUnprocessableEntity && kind == opUpdate:
		target = domain.ErrVersionConflict
	default:
		target = domain.ErrRemoteUnavailable
	}
	return fmt.Errorf("%s %s: %w: %v", op, path, target, err)
}

// shaMissing reports GitHub's answer to a create over an existing file:
// 422 with `"sha" wasn't supplied`. Other 422s are request validation
// failures.
func shaMissing(err error) bool {
	var er *github.ErrorResponse
	if !errors.As(err, &er) {
		return false
	}
	if strings.Contains(er.Message, `"sha" wasn't supplied`) {
		return true
	}
	for _, e := range er.Errors {
		if strings.Contains(e.Message, `"sha" wasn't supplied`) {
			return true
		}
	}
	return false
}
