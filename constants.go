package irc

// Commands a client may send or receive.
const (
	CmdAway     Command = "AWAY"     // Set or clear the away message.
	CmdError    Command = "ERROR"    // Sent by the server right before it closes the link.
	CmdInvite   Command = "INVITE"   // Invite a user to a channel.
	CmdIsOn     Command = "ISON"     // Check whether nicknames are online.
	CmdJoin     Command = "JOIN"     // Join a channel.
	CmdKick     Command = "KICK"     // Remove a user from a channel.
	CmdKill     Command = "KILL"     // Close another client's connection.
	CmdList     Command = "LIST"     // List channels and their topics.
	CmdMode     Command = "MODE"     // Query or change user and channel modes.
	CmdMOTD     Command = "MOTD"     // Request the message of the day.
	CmdNames    Command = "NAMES"    // List visible nicknames on a channel.
	CmdNick     Command = "NICK"     // Set or change the nickname.
	CmdNotice   Command = "NOTICE"   // Send a notice; clients never reply to notices automatically.
	CmdOper     Command = "OPER"     // Obtain operator privileges.
	CmdPart     Command = "PART"     // Leave a channel.
	CmdPass     Command = "PASS"     // Connection password, sent before NICK and USER.
	CmdPing     Command = "PING"     // Test the presence of the other end of the link.
	CmdPong     Command = "PONG"     // Reply to PING.
	CmdPrivmsg  Command = "PRIVMSG"  // Send a message to a user or channel.
	CmdQuit     Command = "QUIT"     // End the session.
	CmdTopic    Command = "TOPIC"    // Query or change a channel topic.
	CmdUser     Command = "USER"     // Username, mode and realname, sent during login.
	CmdUserHost Command = "USERHOST" // Look up user@host for up to 5 nicknames.
	CmdVersion  Command = "VERSION"  // Query the server version.
	CmdWAllOps  Command = "WALLOPS"  // Broadcast to users with user mode +w.
	CmdWho      Command = "WHO"      // List users matching a mask.
	CmdWhoIs    Command = "WHOIS"    // Query information about a user.
	CmdWhoWas   Command = "WHOWAS"   // Query information about a nickname no longer in use.
)

// Registration replies.
const (
	RplWelcome  Command = "001" // "Welcome to the Internet Relay Network <nick>!<user>@<host>"
	RplYourHost Command = "002" // "Your host is <servername>, running version <ver>"
	RplCreated  Command = "003" // "This server was created <date>"
	RplMyInfo   Command = "004" // "<servername> <version> <available user modes> <available channel modes>"
	RplISupport Command = "005" // "<token>... :are supported by this server"
)

// Command replies.
const (
	RplUModeIs       Command = "221" // "<user mode string>"
	RplAway          Command = "301" // "<nick> :<away message>"
	RplUserHost      Command = "302" // ":*1<reply> *( " " <reply> )"
	RplIsOn          Command = "303" // ":*1<nick> *( " " <nick> )"
	RplUnAway        Command = "305" // ":You are no longer marked as being away"
	RplNowAway       Command = "306" // ":You have been marked as being away"
	RplWhoIsUser     Command = "311" // "<nick> <user> <host> * :<real name>"
	RplEndOfWho      Command = "315" // "<name> :End of WHO list"
	RplEndOfWhoIs    Command = "318" // "<nick> :End of WHOIS list"
	RplList          Command = "322" // "<channel> <# visible> :<topic>"
	RplListEnd       Command = "323" // ":End of LIST"
	RplChannelModeIs Command = "324" // "<channel> <mode> <mode params>"
	RplNoTopic       Command = "331" // "<channel> :No topic is set"
	RplTopic         Command = "332" // "<channel> :<topic>"
	RplInviting      Command = "341" // "<channel> <nick>"
	RplWhoReply      Command = "352" // "<channel> <user> <host> <server> <nick> <flags> :<hopcount> <real name>"
	RplNamReply      Command = "353" // "( "=" / "*" / "@" ) <channel> :[ "@" / "+" ] <nick> *( " " [ "@" / "+" ] <nick> )"
	RplEndOfNames    Command = "366" // "<channel> :End of NAMES list"
	RplMOTD          Command = "372" // ":- <text>"
	RplMOTDStart     Command = "375" // ":- <server> Message of the day - "
	RplEndOfMOTD     Command = "376" // ":End of MOTD command"
	RplHostHidden    Command = "396" // "<nick> <host> :is now your displayed host"
)

// Error replies.
const (
	RplErrNoSuchNick        Command = "401" // "<nickname> :No such nick/channel"
	RplErrNoSuchChannel     Command = "403" // "<channel name> :No such channel"
	RplErrCannotSendToChan  Command = "404" // "<channel name> :Cannot send to channel"
	RplErrUnknownCommand    Command = "421" // "<command> :Unknown command"
	RplErrNoMOTD            Command = "422" // ":MOTD File is missing"
	RplErrNoNicknameGiven   Command = "431" // ":No nickname given"
	RplErrErroneousNickname Command = "432" // "<client> <nick> :Erroneous nickname"
	RplErrNicknameInUse     Command = "433" // "<client> <nick> :Nickname is already in use"
	RplErrNickCollision     Command = "436" // "<nick> :Nickname collision KILL from <user>@<host>"
	RplErrUnavailResource   Command = "437" // "<nick/channel> :Nick/channel is temporarily unavailable"
	RplErrNotOnChannel      Command = "442" // "<channel> :You're not on that channel"
	RplErrNotRegistered     Command = "451" // ":You have not registered"
	RplErrNeedMoreParams    Command = "461" // "<command> :Not enough parameters"
	RplErrAlreadyRegistered Command = "462" // ":Unauthorized command (already registered)"
	RplErrPasswdMismatch    Command = "464" // ":Password incorrect"
	RplErrYoureBannedCreep  Command = "465" // ":You are banned from this server"
	RplErrChannelIsFull     Command = "471" // "<channel> :Cannot join channel (+l)"
	RplErrInviteOnlyChan    Command = "473" // "<channel> :Cannot join channel (+i)"
	RplErrBannedFromChan    Command = "474" // "<channel> :Cannot join channel (+b)"
	RplErrBadChannelKey     Command = "475" // "<channel> :Cannot join channel (+k)"
	RplErrChanOPrivsNeeded  Command = "482" // "<channel> :You're not channel operator"
)
