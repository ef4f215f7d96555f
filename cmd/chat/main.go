package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"

	"github.com/chatstack/chatcore/internal/config"
	"github.com/chatstack/chatcore/internal/domain"
	"github.com/chatstack/chatcore/internal/llm"
	"github.com/chatstack/chatcore/internal/provider"
)

var (
	providerName = flag.String("provider", "auto", "Provider to use: openai, lmstudio, ollama, llamacpp or auto")
	modelName    = flag.String("model", "", "Model name (empty auto-detects)")
	systemPrompt = flag.String("system", "You are a helpful, honest, and concise assistant.", "System prompt")
)

func main() {
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupts
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		fmt.Println("\nShutting down...")
		cancel()
		os.Exit(0)
	}()

	cfg := config.Load()
	checker := provider.NewChecker(cfg, cfg.HealthTimeout)
	factory := provider.NewFactory(cfg, checker)

	boldGreen := color.New(color.FgGreen, color.Bold).SprintFunc()
	boldCyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	fmt.Printf("Resolving provider %s...\n", boldCyan(*providerName))
	handle, err := factory.ResolveRequest(ctx, *providerName, *modelName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("Error:"), err)
		os.Exit(1)
	}

	fmt.Println(boldGreen("Chat"))
	fmt.Printf("Provider: %s  Model: %s  URL: %s\n", boldCyan(string(handle.Provider)), boldCyan(handle.Model), handle.BaseURL)
	fmt.Println("Type your message and press Enter. Type 'exit' or press Ctrl+C to quit.")
	fmt.Println()

	conversation := []llm.ChatMessage{
		{Role: string(domain.RoleSystem), Content: *systemPrompt},
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(boldGreen("You: "))
		if !scanner.Scan() {
			break
		}
		userInput := strings.TrimSpace(scanner.Text())
		if userInput == "" {
			continue
		}
		if strings.EqualFold(userInput, "exit") {
			break
		}

		conversation = append(conversation, llm.ChatMessage{
			Role:    string(domain.RoleUser),
			Content: userInput,
		})

		fmt.Print(yellow("Assistant: "))
		var reply strings.Builder
		_, err := handle.Client.CreateChatCompletionStream(ctx, &llm.ChatCompletionRequest{
			Model:    handle.Model,
			Messages: conversation,
		}, func(chunk *llm.StreamChunk) error {
			if len(chunk.Choices) == 0 || chunk.Choices[0].Delta == nil {
				return nil
			}
			delta := chunk.Choices[0].Delta.Content
			reply.WriteString(delta)
			fmt.Print(delta)
			return nil
		})
		fmt.Println()
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("Error:"), err)
			// Drop the failed turn so the history stays consistent
			conversation = conversation[:len(conversation)-1]
			continue
		}

		conversation = append(conversation, llm.ChatMessage{
			Role:    string(domain.RoleAssistant),
			Content: reply.String(),
		})
	}
}
