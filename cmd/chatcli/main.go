// Command chatcli is a terminal client for the chatdesk server. It
// drives the same session and conversation state a browser UI would.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"chatdesk/internal/client"
)

func main() {
	baseURL := os.Getenv("CHATDESK_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	api, err := client.NewAPI(baseURL)
	if err != nil {
		log.Fatalf("%v", err)
	}

	session := client.NewSession(api)
	conversation := client.NewConversation(api)
	ctx := context.Background()

	session.Load(ctx)
	printRoute(session)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Printf("chatdesk [%s]> ", session.Snapshot().State)
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "help":
			printHelp()
		case "register":
			if len(parts) != 3 {
				fmt.Println("usage: register <username> <password>")
				continue
			}
			session.Register(ctx, parts[1], parts[2], parts[2])
			printResult(session, "registered, now log in")
		case "login":
			if len(parts) != 3 {
				fmt.Println("usage: login <username> <password>")
				continue
			}
			session.Login(ctx, parts[1], parts[2])
			printRoute(session)
		case "logout":
			session.Logout(ctx)
			fmt.Println("logged out")
		case "history":
			conversation.LoadChat(ctx)
			printMessages(conversation)
		case "send":
			if len(parts) < 2 {
				fmt.Println("usage: send <message>")
				continue
			}
			conversation.SendMessage(ctx, strings.Join(parts[1:], " "))
			printLast(conversation)
		case "upload":
			if len(parts) != 2 {
				fmt.Println("usage: upload <path>")
				continue
			}
			data, err := os.ReadFile(parts[1])
			if err != nil {
				fmt.Printf("read file: %v\n", err)
				continue
			}
			name := filepath.Base(parts[1])
			conversation.SendFile(ctx, name, mime.TypeByExtension(filepath.Ext(name)), data)
			printLast(conversation)
		case "whoami":
			snap := session.Snapshot()
			if snap.Username == "" {
				fmt.Println("not logged in")
			} else {
				fmt.Println(snap.Username)
			}
		case "exit", "quit":
			return
		default:
			fmt.Printf("unknown command %q (try help)\n", parts[0])
		}
	}
}

func printHelp() {
	fmt.Println(`commands:
  register <username> <password>
  login <username> <password>
  logout
  send <message>
  upload <path>        (txt or pdf)
  history
  whoami
  exit`)
}

func printRoute(session *client.Session) {
	snap := session.Snapshot()
	if snap.Err != "" {
		fmt.Printf("error: %s\n", snap.Err)
	}
	fmt.Printf("view: %s\n", snap.Route())
}

func printResult(session *client.Session, success string) {
	if snap := session.Snapshot(); snap.Err != "" {
		fmt.Printf("error: %s\n", snap.Err)
		return
	}
	fmt.Println(success)
}

func printMessages(conversation *client.Conversation) {
	snap := conversation.Snapshot()
	for _, msg := range snap.Messages {
		fmt.Printf("[%s] %s: %s\n", msg.Time, msg.Sender, msg.Text)
	}
	if len(snap.Messages) == 0 {
		fmt.Println("(no messages yet)")
	}
}

func printLast(conversation *client.Conversation) {
	snap := conversation.Snapshot()
	if len(snap.Messages) == 0 {
		return
	}
	msg := snap.Messages[len(snap.Messages)-1]
	fmt.Printf("%s: %s\n", msg.Sender, msg.Text)
}
