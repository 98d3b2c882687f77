package cli

import (
	"context"
	"fmt"
	"strings"
)

func (a *App) getStatus() string {
	s := ""
	if sess := a.session.Current(); sess != nil {
		s = sess.Email
		if !sess.HasProfile {
			s = s + " *"
		}
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

func (a *App) Root(ctx context.Context) {

	fmt.Println("Welcome to Reverie (type 'help' for commands)")

	if a.isLoggedIn() && !a.session.Current().HasProfile {
		fmt.Println("Your profile is incomplete. Run 'profile' to finish onboarding.")
	}

	for {
		fmt.Printf("reverie %s> ", a.getStatus())

		line, err := a.reader.ReadString('\n')
		if err != nil {
			fmt.Println()
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Println("Available commands: add, (l)ist, show <id>, edit <id>, delete <id>, reset, sync, profile, stats, trends, logout, exit")
			} else {
				fmt.Println("Available commands: register, login, add, (l)ist, show <id>, edit <id>, delete <id>, reset, exit")
			}

		case "register":
			a.Register(ctx)
		case "login":
			a.Login(ctx)
		case "logout":
			a.Logout(ctx)
		case "add":
			a.addDream(ctx)
		case "list", "l":
			a.list(ctx)
		case "show":
			if len(args) == 0 {
				fmt.Println("Usage: show <id>")
				continue
			}
			a.show(ctx, args[0])
		case "edit":
			if len(args) == 0 {
				fmt.Println("Usage: edit <id>")
				continue
			}
			a.edit(ctx, args[0])
		case "delete":
			if len(args) == 0 {
				fmt.Println("Usage: delete <id>")
				continue
			}
			a.delete(ctx, args[0])
		case "reset":
			a.reset(ctx)
		case "sync":
			a.sync(ctx)
		case "profile":
			a.profile(ctx)
		case "stats":
			a.stats(ctx)
		case "trends":
			a.trends(ctx, args)
		case "exit", "quit":
			fmt.Println("Sweet dreams!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}

}
