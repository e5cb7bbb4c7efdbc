// Package lsp serves generator diagnostics and declaration previews over
// the language server protocol.
package lsp

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/4STO2NED0/gen-typescript-declarations/analysis"
	"github.com/4STO2NED0/gen-typescript-declarations/convert"
)

const lsName = "gen-tsd"

var log = commonlog.GetLogger("gen-tsd.lsp")

type Server struct {
	handler   protocol.Handler
	server    *server.Server
	version   string
	workspace *Workspace

	// published holds the URLs that currently have diagnostics, so they can
	// be cleared once fixed.
	published map[string]bool
}

func NewServer(version string) *Server {
	s := &Server{
		version:   version,
		workspace: NewWorkspace("."),
		published: make(map[string]bool),
	}

	s.handler = protocol.Handler{
		Initialize:           s.initialize,
		Initialized:          s.initialized,
		Shutdown:             s.shutdown,
		SetTrace:             s.setTrace,
		TextDocumentDidOpen:  s.textDocumentDidOpen,
		TextDocumentDidClose: s.textDocumentDidClose,
		TextDocumentDidSave:  s.textDocumentDidSave,
		TextDocumentHover:    s.textDocumentHover,
	}

	s.server = server.NewServer(&s.handler, lsName, false)

	return s
}

func (s *Server) RunStdio() error {
	return s.server.RunStdio()
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	} else if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	}
	s.workspace = NewWorkspace(rootDir)

	capabilities := s.handler.CreateServerCapabilities()
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Save:      &protocol.SaveOptions{IncludeText: boolPtr(false)},
	}
	capabilities.HoverProvider = true

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	s.reload(ctx)
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	return nil
}

func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if s.workspace.Watches(path) {
		s.reload(ctx)
	}
	return nil
}

func (s *Server) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	docURL, ok := s.workspace.URL(path)
	if !ok {
		return nil, nil
	}
	pos := analysis.Position{
		Line:   int(params.Position.Line),
		Column: int(params.Position.Character),
	}
	text, ok := s.workspace.Hover(docURL, pos)
	if !ok {
		return nil, nil
	}
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: "```ts\n" + text + "\n```",
		},
	}, nil
}

func (s *Server) reload(ctx *glsp.Context) {
	if err := s.workspace.Reload(context.Background()); err != nil {
		log.Errorf("reload: %s", err)
		ctx.Notify(protocol.ServerWindowShowMessage, protocol.ShowMessageParams{
			Type:    protocol.MessageTypeError,
			Message: err.Error(),
		})
		return
	}
	s.publish(ctx)
}

func (s *Server) publish(ctx *glsp.Context) {
	files, byFile := s.workspace.Diagnostics()
	current := make(map[string]bool, len(files))
	for _, file := range files {
		current[file] = true
		ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
			URI:         pathToURI(s.workspace.Path(file)),
			Diagnostics: toProtocolDiagnostics(byFile[file]),
		})
	}
	for file := range s.published {
		if current[file] {
			continue
		}
		ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
			URI:         pathToURI(s.workspace.Path(file)),
			Diagnostics: []protocol.Diagnostic{},
		})
	}
	s.published = current
}

func toProtocolDiagnostics(diags []convert.Diagnostic) []protocol.Diagnostic {
	result := make([]protocol.Diagnostic, 0, len(diags))
	for _, d := range diags {
		severity := protocol.DiagnosticSeverityWarning
		source := lsName
		end := d.Range.End
		if end.Before(d.Range.Start) || end == d.Range.Start {
			end = analysis.Position{Line: d.Range.Start.Line, Column: d.Range.Start.Column + 1}
		}
		result = append(result, protocol.Diagnostic{
			Range: protocol.Range{
				Start: toProtocolPosition(d.Range.Start),
				End:   toProtocolPosition(end),
			},
			Severity: &severity,
			Code:     &protocol.IntegerOrString{Value: d.Code},
			Source:   &source,
			Message:  d.Message,
		})
	}
	return result
}

func toProtocolPosition(p analysis.Position) protocol.Position {
	return protocol.Position{
		Line:      protocol.UInteger(max(p.Line, 0)),
		Character: protocol.UInteger(max(p.Column, 0)),
	}
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func pathToURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}

func boolPtr(b bool) *bool {
	return &b
}
