package templates

import "fmt"

// RenderProximityAlert generates the HTML body for a nearby-incident alert
func RenderProximityAlert(displayName, reportTitle, reportDescription string, distanceKm float64) string {
	body := fmt.Sprintf("Hi %s,\n\nA new incident was just reported about %.1f km from your location:\n\n%s\n%s\n\nOpen the app to follow updates or add what you know.",
		displayName, distanceKm, reportTitle, reportDescription)
	return RenderGenericEmail("New incident reported near you", body)
}

// RenderCommentAlert generates the HTML body for a new-comment alert sent to
// the report owner
func RenderCommentAlert(commenterName, reportTitle, commentText string) string {
	body := fmt.Sprintf("%s commented on your report \"%s\":\n\n%s\n\nOpen the app to reply.",
		commenterName, reportTitle, commentText)
	return RenderGenericEmail("New comment on your report", body)
}

// RenderPendingDigest generates the HTML body for the nightly admin digest of
// stale pending reports
func RenderPendingDigest(pendingCount int64) string {
	body := fmt.Sprintf("There are %d reports that have been waiting in PENDING for more than 24 hours.\n\nPlease review them in the moderation queue.",
		pendingCount)
	return RenderGenericEmail("Pending reports awaiting review", body)
}
