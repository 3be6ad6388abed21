package extract

import (
	"fmt"
	"strings"
)

// Trimmed-down payloads shaped like the ytInitialData blobs embedded in channel pages.

const aboutPage = `<script>var ytInitialData = {"onResponseReceivedEndpoints":[{"appendContinuationItemsAction":{"continuationItems":[{"aboutChannelRenderer":{"metadata":{"aboutChannelViewModel":{` +
	`"description":"Hello \"world\"\nSecond line & more",` +
	`"subscriberCountText":"1.2M subscribers","viewCountText":"345,678,901 views","joinedDateText":{"content":"Joined Jan 1, 2010"},` +
	`"canonicalChannelUrl":"http://www.youtube.com/@example","videoCountText":"512 videos","country":"Canada",` +
	`"links":[` +
	`{"channelExternalLinkViewModel":{"title":{"content":"Twitter"},"link":{"content":"twitter.com/example"},"favicon":{"sources":[{"url":"https://icons.example/tw.png","width":256,"height":256}]}}},` +
	`{"channelExternalLinkViewModel":{"title":{"content":"Shop & Merch"},"link":{"content":"https://shop.example.com"},"favicon":{"sources":[{"url":"https://icons.example/shop.png","width":256,"height":256}]}}},` +
	`{"channelExternalLinkViewModel":{"title":{"content":"Blog"},"link":{"content":"www.blog.example"},"favicon":{"sources":[]}}}` +
	`],"businessEmailRevealButton":{"buttonViewModel":{"title":"View email address"}}}}}}]}}]};</script>`

// aboutPageScattered has the stats split apart and no join date.
const aboutPageScattered = `{"aboutChannelViewModel":{"subscriberCountText":"99 subscribers","country":"Norway","viewCountText":"1,000 views","videoCountText":"3 videos","description":""}}`

func videoRenderer(id, title, published, length, views string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `{"richItemRenderer":{"content":{"videoRenderer":{"videoId":%q,"thumbnail":{"thumbnails":[{"url":"https://i.ytimg.com/vi/%s/hqdefault.jpg","width":168}]}`, id, id)
	fmt.Fprintf(&b, `,"title":{"runs":[{"text":"%s"}]}`, title)
	if published != "" {
		fmt.Fprintf(&b, `,"publishedTimeText":{"simpleText":%q}`, published)
	}
	if length != "" {
		fmt.Fprintf(&b, `,"lengthText":{"accessibility":{"accessibilityData":{"label":"some minutes"}},"simpleText":%q}`, length)
	}
	if views != "" {
		fmt.Fprintf(&b, `,"viewCountText":{"simpleText":%q}`, views)
	}
	b.WriteString(`}}}`)
	return b.String()
}

func shortsLockup(id, title, views string) string {
	return fmt.Sprintf(`{"richItemRenderer":{"content":{"shortsLockupViewModel":{"entityId":"shorts-shelf-item-%s","thumbnail":{"sources":[{"url":"https://i.ytimg.com/vi/%s/frame0.jpg","width":405}]},"onTap":{"innertubeCommand":{"reelWatchEndpoint":{"videoId":%q}}},"overlayMetadata":{"primaryText":{"content":"%s"},"secondaryText":{"content":%q}}}}}}`,
		id, id, id, title, views)
}

func streamRenderer(id, title, viewsJSON string, live bool) string {
	badge := ""
	if live {
		badge = `,"badges":[{"metadataBadgeRenderer":{"style":"BADGE_STYLE_TYPE_LIVE_NOW","label":"LIVE"}}]`
	}
	return fmt.Sprintf(`{"richItemRenderer":{"content":{"videoRenderer":{"videoId":%q,"thumbnail":{"thumbnails":[{"url":"https://i.ytimg.com/vi/%s/hq.jpg"}]},"title":{"runs":[{"text":"%s"}]},"viewCountText":%s%s}}}`,
		id, id, title, viewsJSON, badge)
}

func playlistLockup(id, title, count string) string {
	var b strings.Builder
	b.WriteString(`{"lockupViewModel":{"contentImage":{"collectionThumbnailViewModel":{"primaryThumbnail":{"thumbnailViewModel":{"image":{"sources":[{"url":"https://i.ytimg.com/pl/` + id + `.jpg"}]}`)
	if count != "" {
		b.WriteString(`,"overlays":[{"thumbnailOverlayBadgeViewModel":{"thumbnailBadges":[{"thumbnailBadgeViewModel":{"text":"` + count + `"}}]}}]`)
	}
	b.WriteString(`}}}},"metadata":{"lockupMetadataViewModel":{"title":{"content":"` + title + `"}}}`)
	if id != "" {
		b.WriteString(`,"rendererContext":{"commandContext":{"onTap":{"innertubeCommand":{"commandMetadata":{"webCommandMetadata":{"url":"/playlist?list=` + id + `"}}}}}}`)
	}
	b.WriteString(`}`)
	return b.String()
}

const playlistTabs = `{"tabs":[{"tabRenderer":{"title":"Home","selected":false}},{"tabRenderer":{"title":"Playlists","selected":true}}]}`
