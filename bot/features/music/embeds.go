package music

import (
	"fmt"
	"strings"
	"time"

	"warden/bot/common"
	audio "warden/domain/music"

	"github.com/bwmarrin/discordgo"
)

const (
	queuePageSize     = 10
	progressBarLength = 18
)

func trackLength(t audio.Track) string {
	if t.IsStream {
		return "🔴 Live"
	}
	return audio.FormatTrackDuration(t.Length)
}

func buildQueuedEmbed(track audio.Track, position int) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Color:       common.ColorPrimary,
		Description: track.Display(),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Length", Value: trackLength(track), Inline: true},
		},
	}
	if track.ArtworkURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: track.ArtworkURL}
	}
	if position == 0 {
		embed.Title = "Starting playback"
		return embed
	}
	embed.Title = "Added to queue"
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name: "Position", Value: fmt.Sprintf("#%d", position), Inline: true,
	})
	return embed
}

func buildPlaylistQueuedEmbed(name string, tracks []audio.Track, position int) *discordgo.MessageEmbed {
	var total time.Duration
	for _, t := range tracks {
		total += t.Length
	}
	desc := fmt.Sprintf("**%s** (%s, %s)", name,
		common.Plural(len(tracks), "track", "tracks"), audio.FormatTrackDuration(total))
	if position > 0 {
		desc += fmt.Sprintf("\nQueued from position #%d", position)
	}
	return &discordgo.MessageEmbed{
		Title:       "Playlist added",
		Color:       common.ColorPrimary,
		Description: desc,
	}
}

func buildNowPlayingEmbed(snapshot audio.Snapshot) *discordgo.MessageEmbed {
	track := snapshot.Current
	if track == nil {
		return queueFinishedEmbed()
	}

	progress := "🔴 Live"
	if !track.IsStream {
		progress = fmt.Sprintf("`%s` %s `%s`",
			audio.FormatTrackDuration(snapshot.Position),
			audio.ProgressBar(snapshot.Position, track.Length, progressBarLength),
			audio.FormatTrackDuration(track.Length))
	}

	state := "Now playing"
	if snapshot.Paused {
		state = "Paused"
	}
	autoplay := "Off"
	if snapshot.Autoplay {
		autoplay = "On"
	}

	embed := &discordgo.MessageEmbed{
		Title:       state,
		Color:       common.ColorPrimary,
		Description: track.Display() + "\n\n" + progress,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Volume", Value: fmt.Sprintf("%d%%", snapshot.Volume), Inline: true},
			{Name: "Loop", Value: string(snapshot.Loop), Inline: true},
			{Name: "Autoplay", Value: autoplay, Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: common.Plural(len(snapshot.Queue), "track", "tracks") + " in queue",
		},
	}
	if track.RequesterID != 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Requested by", Value: common.UserMention(track.RequesterID), Inline: true,
		})
	}
	if track.ArtworkURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: track.ArtworkURL}
	}
	return embed
}

func buildQueueEmbed(snapshot audio.Snapshot, page int) *discordgo.MessageEmbed {
	pages := (len(snapshot.Queue) + queuePageSize - 1) / queuePageSize
	if pages == 0 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}

	var sb strings.Builder
	if snapshot.Current != nil {
		fmt.Fprintf(&sb, "**Now playing:** %s `[%s]`\n\n", snapshot.Current.Display(), trackLength(*snapshot.Current))
	}
	if len(snapshot.Queue) == 0 {
		sb.WriteString("The queue is empty.")
	}

	start := (page - 1) * queuePageSize
	end := start + queuePageSize
	if end > len(snapshot.Queue) {
		end = len(snapshot.Queue)
	}
	var total time.Duration
	for _, t := range snapshot.Queue {
		total += t.Length
	}
	for idx := start; idx < end; idx++ {
		t := snapshot.Queue[idx]
		fmt.Fprintf(&sb, "`%d.` %s `[%s]`\n", idx+1, t.Display(), trackLength(t))
	}

	return &discordgo.MessageEmbed{
		Title:       "Queue",
		Color:       common.ColorPrimary,
		Description: common.Truncate(strings.TrimSpace(sb.String()), common.MaxEmbedDescription),
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Page %d/%d | %s | %s | Loop: %s",
				page, pages,
				common.Plural(len(snapshot.Queue), "track", "tracks"),
				audio.FormatTrackDuration(total),
				snapshot.Loop),
		},
	}
}

func queueFinishedEmbed() *discordgo.MessageEmbed {
	return common.InfoEmbed("Queue finished", "Nothing left to play.")
}

func stoppedEmbed() *discordgo.MessageEmbed {
	return common.InfoEmbed("Stopped", "Playback stopped and the queue was cleared.")
}
