package main

import (
	"log"
	"os"

	"github.com/virtuallab/portal/core/ctf"
	"github.com/virtuallab/portal/core/task"
	"github.com/virtuallab/portal/core/user"
	"github.com/virtuallab/portal/storage/database"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	// set up DB
	db, err := database.Open()
	errAndDie(err)
	defer db.Close()

	// start CLI
	cli := commandLine{
		db:      db,
		usrSvc:  user.NewService(database.NewUserRepository(db)),
		ctfSvc:  ctf.NewService(database.NewCTFRepository(db), nil),
		taskSvc: task.NewService(database.NewTaskRepository(db), nil),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
