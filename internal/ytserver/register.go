package ytserver

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterTools registers the channel info tools on the given MCP server:
// channel_info, annotate_comments, settings_get, settings_update.
func RegisterTools(server *mcp.Server, svc *Service) {
	registerChannelInfo(server, svc)
	registerAnnotateComments(server, svc)
	registerSettingsGet(server, svc)
	registerSettingsUpdate(server, svc)
}

func registerChannelInfo(server *mcp.Server, svc *Service) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "channel_info",
		Description: "Fetch public channel metadata for a YouTube channel: subscriber count, country, join date, video and view totals, description, external links, business email availability, latest video/short/livestream and playlists. Only sub-pages needed by the enabled settings are fetched; missing fields are omitted.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input ChannelInfoInput) (*mcp.CallToolResult, ChannelInfo, error) {
		if input.ChannelURL == "" {
			return nil, ChannelInfo{}, errors.New("channel_url is required")
		}
		out, err := svc.ChannelInfo(ctx, input.ChannelURL)
		if err != nil {
			return nil, ChannelInfo{}, err
		}
		return nil, out, nil
	})
}

func registerAnnotateComments(server *mcp.Server, svc *Service) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "annotate_comments",
		Description: "Annotate a YouTube comment feed fragment: every ytd-comment-view-model with an author link gets a .yt-enhanced-info widget with the author's channel info, placed per the infoPosition setting. Returns the annotated HTML, a Markdown rendering and counts.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input AnnotateInput) (*mcp.CallToolResult, AnnotateOutput, error) {
		out, err := svc.Annotate(ctx, input.HTML)
		if err != nil {
			return nil, AnnotateOutput{}, err
		}
		return nil, out, nil
	})
}

func registerSettingsGet(server *mcp.Server, svc *Service) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "settings_get",
		Description: "Show the current widget settings: which fields are enabled and the widget position.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ SettingsGetInput) (*mcp.CallToolResult, SettingsOutput, error) {
		return nil, toSettingsOutput(svc.Settings(ctx)), nil
	})
}

func registerSettingsUpdate(server *mcp.Server, svc *Service) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "settings_update",
		Description: "Enable or disable widget fields and set the widget position (inline or header). Unlisted fields keep their current value.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input SettingsUpdateInput) (*mcp.CallToolResult, SettingsOutput, error) {
		if len(input.Values) == 0 && input.Position == "" {
			return nil, SettingsOutput{}, errors.New("values or position is required")
		}
		out, err := svc.UpdateSettings(ctx, input)
		if err != nil {
			return nil, SettingsOutput{}, err
		}
		return nil, out, nil
	})
}
