package generator

// contentContinuesMarker is inserted between sampled zones so the model
// knows material was elided rather than ending abruptly.
const contentContinuesMarker = "\n\n[... content continues ...]\n\n"

// PrepareContent fits raw content into a character budget. Content at or
// under the budget passes through unchanged. Oversized content is sampled
// from three zones of the document, head, midpoint, and tail, so the
// prompt covers the whole document instead of just its introduction.
// Pure function of (content, limit).
func PrepareContent(content string, limit int) string {
	if limit <= 0 || len(content) <= limit {
		return content
	}

	zone := limit / 3
	if zone == 0 {
		return content[:limit]
	}

	head := content[:zone]

	midStart := len(content)/2 - zone/2
	mid := content[midStart : midStart+zone]

	tail := content[len(content)-zone:]

	return head + contentContinuesMarker + mid + contentContinuesMarker + tail
}
