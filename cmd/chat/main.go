package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"clinical-assistant-be/internal/bootstrap"
	"clinical-assistant-be/internal/config"
	"clinical-assistant-be/internal/dto"
	"clinical-assistant-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

func main() {
	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.NatsPublisher.Close()

	sessionId := uuid.New().String()

	color.Cyan("🏥 Assistente de Protocolos Clínicos")
	color.Yellow("⚠️  Ferramenta de consulta a protocolos internos. Não substitui o julgamento clínico profissional.")
	fmt.Println()
	fmt.Println("Comandos: 'sair' encerra, 'limpar' reinicia a conversa.")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		color.Set(color.FgGreen)
		fmt.Print("Você: ")
		color.Unset()

		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}

		switch strings.ToLower(question) {
		case "sair":
			fmt.Println("Até logo!")
			return
		case "limpar":
			container.ChatService.ClearSession(context.Background(), sessionId)
			sessionId = uuid.New().String()
			color.Yellow("Conversa reiniciada.")
			continue
		}

		start := time.Now()
		res, err := container.ChatService.Ask(context.Background(), &dto.AskRequest{
			SessionId: sessionId,
			Question:  question,
		})
		elapsed := time.Since(start)

		if err != nil {
			color.Red("Erro: %v", err)
			continue
		}

		fmt.Println()
		switch res.Status {
		case "rejected":
			color.Red("Assistente (%v): %s", elapsed.Round(time.Millisecond), res.Answer)
		case "degraded":
			color.Yellow("Assistente (%v): %s", elapsed.Round(time.Millisecond), res.Answer)
		default:
			color.White("Assistente (%v): %s", elapsed.Round(time.Millisecond), res.Answer)
		}

		if len(res.CitedSources) > 0 {
			color.Cyan("Fontes: %s", strings.Join(res.CitedSources, ", "))
		}
		fmt.Println()
	}
}
