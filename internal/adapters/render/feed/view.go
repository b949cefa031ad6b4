package feed

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/drobledo/pulso-cli/internal/application"
	"github.com/drobledo/pulso-cli/internal/domain"
)

type RenderOptions struct {
	Now time.Time
}

func renderFeed(page application.FeedPage, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Feed"),
		s.header.Render(fmt.Sprintf("tweets: %d", len(page.Tweets))),
	}

	if page.Stale {
		age := formatRelative(page.FetchedAt, opts.Now)
		warning := fmt.Sprintf("offline: showing cached feed from %s", age)
		if page.FetchErr != nil {
			warning += fmt.Sprintf(" (%v)", page.FetchErr)
		}
		lines = append(lines, s.warning.Render(warning))
	}

	if len(page.Tweets) == 0 {
		lines = append(lines, s.empty.Render("No tweets yet."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, tweet := range page.Tweets {
		lines = append(lines, s.section.Render(renderTweet(tweet, opts, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderTweet(tweet domain.Tweet, opts RenderOptions, s styles) string {
	parts := []string{
		authorLine(tweet.Author, tweet.CreatedAt, opts, s),
		s.body.Render(tweet.Content),
		countsLine(tweet, s),
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderComments(tweet *domain.Tweet, comments []domain.Comment, opts RenderOptions, s styles) string {
	lines := make([]string, 0, len(comments)+3)

	if tweet != nil {
		lines = append(lines, s.section.Render(renderTweet(*tweet, opts, s)), s.separator.Render(strings.Repeat("-", 40)))
	}
	lines = append(lines, s.header.Render(fmt.Sprintf("comments: %d", len(comments))))

	if len(comments) == 0 {
		lines = append(lines, s.empty.Render("No comments yet."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, comment := range comments {
		parts := []string{
			authorLine(comment.Author, comment.CreatedAt, opts, s),
			s.body.Render(comment.Content),
		}
		meta := []string{s.meta.Render("id " + comment.ID)}
		if comment.LikeCount > 0 {
			style := s.counts
			if comment.LikedByViewer {
				style = s.liked
			}
			meta = append(meta, style.Render(fmt.Sprintf("%d likes", comment.LikeCount)))
		}
		if comment.Edited {
			meta = append(meta, s.edited.Render("(edited)"))
		}
		parts = append(parts, strings.Join(meta, "  "))
		lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, parts...)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderProfile(user domain.User, tweets []domain.Tweet, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render(displayName(user)),
		s.handle.Render("@" + user.Username),
	}

	fields := []struct {
		key   string
		value string
	}{
		{"bio", user.Bio},
		{"location", user.Location},
		{"website", user.Website},
		{"joined", formatAbsolute(user.CreatedAt)},
	}
	for _, field := range fields {
		if field.value == "" {
			continue
		}
		lines = append(lines, s.fieldKey.Render(field.key+": ")+s.fieldVal.Render(field.value))
	}

	lines = append(lines, s.counts.Render(fmt.Sprintf("%d followers · %d following · %d tweets",
		user.Followers, user.Following, user.TweetTotal)))

	if len(tweets) > 0 {
		lines = append(lines, s.section.Render(s.header.Render(fmt.Sprintf("recent tweets: %d", len(tweets)))))
		for _, tweet := range tweets {
			lines = append(lines, s.section.Render(renderTweet(tweet, opts, s)))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func authorLine(author domain.Author, createdAt time.Time, opts RenderOptions, s styles) string {
	name := author.DisplayName
	if name == "" {
		name = author.Username
	}
	if name == "" {
		name = "unknown"
	}

	line := s.author.Render(name)
	if author.Username != "" {
		line += " " + s.handle.Render("@"+author.Username)
	}
	if !createdAt.IsZero() {
		line += " " + s.meta.Render("· "+formatRelative(createdAt, opts.Now))
	}

	return line
}

func countsLine(tweet domain.Tweet, s styles) string {
	likeStyle := s.counts
	likeLabel := fmt.Sprintf("%d likes", tweet.LikeCount)
	if tweet.LikedByViewer {
		likeStyle = s.liked
		likeLabel += " ♥"
	}

	parts := []string{
		s.meta.Render("id " + tweet.ID),
		likeStyle.Render(likeLabel),
		s.counts.Render(fmt.Sprintf("%d comments", tweet.CommentCount)),
	}
	if !tweet.Resolvable() {
		parts = append(parts, s.warning.Render("[local only]"))
	}

	return strings.Join(parts, "  ")
}

func displayName(user domain.User) string {
	if user.DisplayName != "" {
		return user.DisplayName
	}
	if user.Username != "" {
		return user.Username
	}
	return "unknown"
}

func formatRelative(at, now time.Time) string {
	if at.IsZero() {
		return "unknown time"
	}
	if now.IsZero() {
		return formatAbsolute(at)
	}

	elapsed := now.Sub(at)
	switch {
	case elapsed < time.Minute:
		return "just now"
	case elapsed < time.Hour:
		return fmt.Sprintf("%dm ago", int(elapsed.Minutes()))
	case elapsed < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(elapsed.Hours()))
	case elapsed < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(elapsed.Hours()/24))
	default:
		return formatAbsolute(at)
	}
}

func formatAbsolute(at time.Time) string {
	if at.IsZero() {
		return ""
	}
	return at.Format("Jan 2, 2006")
}
