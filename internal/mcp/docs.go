package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `folio administers the projects shown on a personal portfolio site.

- list_projects returns projects in display order. Each entry carries its 0-based position and its order value.
- move_project takes 0-based positions. The whole list is renumbered 1..N and only changed rows are written.
- If any write of a move fails, the previous order is restored and the list is re-read from the server.
- normalize_project_order repairs gaps and duplicates left by other clients.
- search_projects and recent_activity work on the local cache of this client.

See folio://docs/ordering for the ordering rules.
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "folio://docs/ordering",
		Name:        "docs_ordering",
		Title:       "Project ordering",
		Description: "How project order values are assigned, written and repaired.",
		Content: `# Project ordering

Projects are displayed in ascending order value. After every move the list is
numbered 1..N from top to bottom, so the order value of a project is always
its position plus one.

## Moves

A move removes one project and inserts it at the destination position. Every
project whose order value changed is written to the server, all at once. The
server never sees a partial renumbering as final: when any write fails the
previous order is shown again and the collection is re-read.

Moving a project onto its own position, or to a position outside the list, does
nothing.

## Normalizing

Other clients can leave gaps or duplicates. normalize_project_order sorts by
order value (creation time breaks ties) and renumbers 1..N.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
