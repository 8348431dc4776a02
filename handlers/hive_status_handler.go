package handlers

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"hivebot/bot"
	"hivebot/hive"
	"hivebot/utils/database"
)

func handleHiveStatus(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	drones, err := database.ListDrones(b.DB)
	if err != nil {
		replyError(s, i, b, err)
		return
	}
	stored, err := database.ListStorage(b.DB)
	if err != nil {
		replyError(s, i, b, err)
		return
	}

	var roster strings.Builder
	for idx := range drones {
		d := &drones[idx]
		bt, err := database.GetBatteryType(b.DB, d.BatteryTypeID)
		if err != nil {
			continue
		}
		roster.WriteString(hive.BatteryReport(d, bt))
		roster.WriteString("\n")
	}
	if roster.Len() == 0 {
		roster.WriteString("No active drones.")
	}

	cpuPercent, _ := cpu.Percent(0, false)
	vm, _ := mem.VirtualMemory()
	hostInfo, _ := host.Info()

	cpuLine := "n/a"
	if len(cpuPercent) > 0 {
		cpuLine = fmt.Sprintf("%.1f%%", cpuPercent[0])
	}
	memLine := "n/a"
	if vm != nil {
		memLine = fmt.Sprintf("%.1f%% (%d MB / %d MB)", vm.UsedPercent, vm.Used/1024/1024, vm.Total/1024/1024)
	}
	osLine := "n/a"
	if hostInfo != nil {
		osLine = fmt.Sprintf("%s %s", hostInfo.Platform, hostInfo.PlatformVersion)
	}

	embed := &discordgo.MessageEmbed{
		Title: "Hive Status",
		Color: 0x5865F2,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Active drones", Value: fmt.Sprintf("%d", len(drones)), Inline: true},
			{Name: "In storage", Value: fmt.Sprintf("%d", len(stored)), Inline: true},
			{Name: "Gateway latency", Value: s.HeartbeatLatency().String(), Inline: true},
			{Name: "OS", Value: osLine, Inline: true},
			{Name: "CPU", Value: cpuLine, Inline: true},
			{Name: "Memory", Value: memLine, Inline: true},
			{Name: "Go version", Value: runtime.Version(), Inline: true},
			{Name: "Goroutines", Value: fmt.Sprintf("%d", runtime.NumGoroutine()), Inline: true},
			{Name: "Roster", Value: roster.String(), Inline: false},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Hive monitor :: %s", time.Now().Format("15:04")),
		},
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
	if err != nil {
		b.Log.Error().Err(err).Msg("failed to send hive status")
	}
}
