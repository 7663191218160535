package app

const (
	Name           = "offroad"
	ConfigFilename = "config.json"
	DBFilename     = "history.db"
	LogFilename    = "offroad.log"
	// RecentActionsLoad is how many history rows the network panel shows.
	RecentActionsLoad = 20
	// HistoryKeep bounds the action history table at startup.
	HistoryKeep = 500
)
