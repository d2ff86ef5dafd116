package music

import (
	"context"
	"errors"

	"warden/bot/common"
	audio "warden/domain/music"

	"github.com/bwmarrin/discordgo"
)

const (
	buttonPause   = componentPrefix + "pause"
	buttonSkip    = componentPrefix + "skip"
	buttonStop    = componentPrefix + "stop"
	buttonLoop    = componentPrefix + "loop"
	buttonShuffle = componentPrefix + "shuffle"
)

// nextLoopMode cycles off, track, queue
func nextLoopMode(mode audio.LoopMode) audio.LoopMode {
	switch mode {
	case audio.LoopOff:
		return audio.LoopTrack
	case audio.LoopTrack:
		return audio.LoopQueue
	default:
		return audio.LoopOff
	}
}

// HandleComponent applies a now playing button and refreshes the message
func (f *Feature) HandleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	p, err := f.requirePlayer(s, i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	switch i.MessageComponentData().CustomID {
	case buttonPause:
		err = p.Pause(ctx)
		if errors.Is(err, audio.ErrAlreadyPaused) {
			err = p.Resume(ctx)
		}
	case buttonSkip:
		_, err = p.Skip(ctx)
	case buttonStop:
		if err = p.Stop(ctx); err == nil {
			common.LogResponseError(i, common.UpdateMessage(s, i, stoppedEmbed(), []discordgo.MessageComponent{}))
			return
		}
	case buttonLoop:
		p.SetLoop(nextLoopMode(p.Snapshot().Loop))
	case buttonShuffle:
		p.Shuffle()
	default:
		common.RespondWithError(s, i, "Unknown control")
		return
	}
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	snapshot := p.Snapshot()
	if snapshot.Current == nil {
		common.LogResponseError(i, common.UpdateMessage(s, i, queueFinishedEmbed(), []discordgo.MessageComponent{}))
		return
	}
	common.LogResponseError(i, common.UpdateMessage(s, i, buildNowPlayingEmbed(snapshot), buildControls(snapshot)))
}

// buildControls renders the now playing buttons for the current state
func buildControls(snapshot audio.Snapshot) []discordgo.MessageComponent {
	pauseLabel, pauseEmoji := "Pause", "⏸️"
	if snapshot.Paused {
		pauseLabel, pauseEmoji = "Resume", "▶️"
	}
	loopStyle := discordgo.SecondaryButton
	if snapshot.Loop != audio.LoopOff {
		loopStyle = discordgo.SuccessButton
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{Label: pauseLabel, Style: discordgo.PrimaryButton, CustomID: buttonPause, Emoji: &discordgo.ComponentEmoji{Name: pauseEmoji}},
				discordgo.Button{Label: "Skip", Style: discordgo.SecondaryButton, CustomID: buttonSkip, Emoji: &discordgo.ComponentEmoji{Name: "⏭️"}},
				discordgo.Button{Label: "Stop", Style: discordgo.DangerButton, CustomID: buttonStop, Emoji: &discordgo.ComponentEmoji{Name: "⏹️"}},
				discordgo.Button{Label: "Loop", Style: loopStyle, CustomID: buttonLoop, Emoji: &discordgo.ComponentEmoji{Name: "🔁"}},
				discordgo.Button{Label: "Shuffle", Style: discordgo.SecondaryButton, CustomID: buttonShuffle, Emoji: &discordgo.ComponentEmoji{Name: "🔀"}},
			},
		},
	}
}
