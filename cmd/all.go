package cmd

import (
	_ "update-keeper/cmd/check"
	_ "update-keeper/cmd/root"
	_ "update-keeper/cmd/server"
	_ "update-keeper/cmd/update"
	_ "update-keeper/cmd/website"
)
