package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/justmike2000/itemwars/protocol"
)

// console is the interactive server prompt: setgame/setplayer select the
// session and player the next command runs as, exit quits, and any
// protocol action name is sent against the locally-running server.
func console(addr string) {
	scanner := bufio.NewScanner(os.Stdin)
	player := ""
	gameID := ""
	for {
		fmt.Print("\nITEM WARS ENTER COMMAND :> ")
		if !scanner.Scan() {
			return
		}
		command := strings.ToLower(strings.Join(strings.Fields(scanner.Text()), ""))
		switch {
		case command == "":
			continue
		case command == "exit":
			return
		case strings.HasPrefix(command, "setgame"):
			gameID = strings.TrimPrefix(command, "setgame")
			fmt.Printf("Game ID set to %s\n", gameID)
		case strings.HasPrefix(command, "setplayer"):
			player = strings.TrimPrefix(command, "setplayer")
			fmt.Printf("Playername set to %s\n", player)
		default:
			action := protocol.ActionFromString(command)
			if action == protocol.ActionUnknown {
				fmt.Println("Command not found!")
				continue
			}
			result, err := protocol.Send(addr, protocol.Request{
				GameID: gameID,
				Player: player,
				Action: action,
			}, true)
			if err != nil {
				fmt.Println("Command not found!")
				continue
			}
			fmt.Printf("RESULT: %s\n", result)
			if action == protocol.ActionNewGame {
				gameID = result
				fmt.Printf("Game ID set to %s\n", gameID)
			}
		}
	}
}
