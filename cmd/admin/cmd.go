package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"syscall"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/jmoiron/sqlx"
	"github.com/volatiletech/null/v8"
	"golang.org/x/term"

	"github.com/virtuallab/portal/core/ctf"
	"github.com/virtuallab/portal/core/task"
	"github.com/virtuallab/portal/core/user"
	"github.com/virtuallab/portal/storage/database"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db      *sqlx.DB
	usrSvc  *user.Service
	ctfSvc  *ctf.Service
	taskSvc *task.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate - apply all pending database migrations")
	fmt.Println("  adduser -name NAME -email EMAIL [-username USERNAME] [-admin] - create a user; the password is prompted next")
	fmt.Println("  addchallenge -title TITLE -description DESC -difficulty easy|medium|hard -category CAT -points N -flag FLAG - create a challenge")
	fmt.Println("  seed [-users N] [-tasks N] [-challenges N] - populate the database with fake demo data")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ExitOnError)
	addUserName := addUserCmd.String("name", "", "The user's full name.")
	addUserUname := addUserCmd.String("username", "", "The user's username. Optional.")
	addUserEmail := addUserCmd.String("email", "", "The user's email address.")
	addUserAdmin := addUserCmd.Bool("admin", false, "Grant the owner admin role.")

	addChalCmd := flag.NewFlagSet("addchallenge", flag.ExitOnError)
	addChalTitle := addChalCmd.String("title", "", "The challenge title.")
	addChalDesc := addChalCmd.String("description", "", "The challenge description.")
	addChalDiff := addChalCmd.String("difficulty", "", "One of: easy, medium, hard.")
	addChalCat := addChalCmd.String("category", "", "The challenge category.")
	addChalPoints := addChalCmd.Int("points", 0, "The challenge point value.")
	addChalFlag := addChalCmd.String("flag", "", "The plaintext flag. Only its digest is stored.")

	seedCmd := flag.NewFlagSet("seed", flag.ExitOnError)
	seedUsers := seedCmd.Int("users", 10, "Number of fake users to create.")
	seedTasks := seedCmd.Int("tasks", 15, "Number of fake tasks to create.")
	seedChals := seedCmd.Int("challenges", 5, "Number of fake challenges to create.")

	switch args[1] {
	case "migrate":
		return database.Migrate(cli.db)

	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserName == "" || *addUserEmail == "" {
			addUserCmd.Usage()
			return errHelp
		}
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(*addUserName, *addUserUname, *addUserEmail, string(pwd), *addUserAdmin)

	case "addchallenge":
		if err := addChalCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.addChallenge(ctf.NewChallenge{
			Title:       *addChalTitle,
			Description: *addChalDesc,
			Difficulty:  *addChalDiff,
			Category:    *addChalCat,
			Points:      *addChalPoints,
			Flag:        *addChalFlag,
		})

	case "seed":
		if err := seedCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.seed(*seedUsers, *seedTasks, *seedChals)

	default:
		cli.printUsage()
		return errHelp
	}
}

// seed fills the database with plausible demo data. Intended for local
// development and demo environments only.
func (cli *commandLine) seed(nUsers, nTasks, nChals int) error {
	ctx := context.Background()

	users := make([]user.User, 0, nUsers)
	for i := 0; i < nUsers; i++ {
		roles := []string{user.RoleStudent}
		if gofakeit.Bool() {
			roles = []string{user.RoleAssistant}
		}
		usr, err := cli.usrSvc.Create(ctx, user.NewUser{
			Name:     gofakeit.Name(),
			Username: fmt.Sprintf("%s%d", gofakeit.Username(), i),
			Email:    gofakeit.Email(),
			Password: gofakeit.Password(true, true, true, false, false, 12),
			Roles:    roles,
		})
		if err != nil {
			return err
		}
		users = append(users, usr)
	}
	logger.Printf("created %d users", len(users))

	statuses := []string{task.StatusTodo, task.StatusInProgress, task.StatusDone}
	priorities := []string{task.PriorityLow, task.PriorityMedium, task.PriorityHigh}
	for i := 0; i < nTasks; i++ {
		usr := users[gofakeit.Number(0, len(users)-1)]
		nt := task.NewTask{
			Title:       gofakeit.Sentence(4),
			Description: gofakeit.Sentence(12),
			Status:      statuses[gofakeit.Number(0, len(statuses)-1)],
			Course:      gofakeit.BookTitle(),
			Assignee:    usr.Name,
			Priority:    priorities[gofakeit.Number(0, len(priorities)-1)],
		}
		if gofakeit.Bool() {
			nt.DueAt = null.TimeFrom(gofakeit.FutureDate().UTC())
		}
		if _, err := cli.taskSvc.Create(ctx, usr.ID, nt); err != nil {
			return err
		}
	}
	logger.Printf("created %d tasks", nTasks)

	difficulties := []string{ctf.DifficultyEasy, ctf.DifficultyMedium, ctf.DifficultyHard}
	categories := []string{"web", "crypto", "pwn", "forensics", "misc"}
	for i := 0; i < nChals; i++ {
		_, err := cli.ctfSvc.CreateChallenge(ctx, ctf.NewChallenge{
			Title:       gofakeit.HackerVerb() + " " + gofakeit.HackerNoun(),
			Description: gofakeit.HackerPhrase(),
			Difficulty:  difficulties[gofakeit.Number(0, len(difficulties)-1)],
			Category:    categories[gofakeit.Number(0, len(categories)-1)],
			Points:      gofakeit.Number(1, 10) * 50,
			Flag:        fmt.Sprintf("FLAG{%s}", gofakeit.UUID()),
		})
		if err != nil {
			return err
		}
	}
	logger.Printf("created %d challenges", nChals)
	return nil
}

func (cli *commandLine) addUser(name, uname, email, pwd string, admin bool) error {
	nu := user.NewUser{
		Name:            name,
		Username:        uname,
		Email:           email,
		Password:        pwd,
		PasswordConfirm: pwd,
	}
	if admin {
		nu.Roles = []string{user.RoleAdminOwner}
	} else {
		nu.Roles = []string{user.RoleStudent}
	}
	if err := nu.Validate(cli.usrSvc); err != nil {
		return err
	}

	usr, err := cli.usrSvc.Create(context.Background(), nu)
	if err != nil {
		return err
	}
	logger.Printf("user %q created (id %s)", usr.Username, usr.ID)
	return nil
}

func (cli *commandLine) addChallenge(nc ctf.NewChallenge) error {
	if err := nc.Validate(); err != nil {
		return err
	}

	ch, err := cli.ctfSvc.CreateChallenge(context.Background(), nc)
	if err != nil {
		return err
	}
	logger.Printf("challenge %q created (id %s, %d points)", ch.Title, ch.ID, ch.Points)
	return nil
}
