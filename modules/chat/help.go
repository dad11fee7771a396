package chat

// helpText is sent on connect and in response to /help.
const helpText = `Available commands:
/join <room_name> - Join a different room
/name <new_name> - Change your name
/users - List users in current room
/allusers - List all users
/rooms - List all rooms
/renameroom <new_name> - Rename current room
/help - Show this help message
/quit - Disconnect
`
