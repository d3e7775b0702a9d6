// Package dummydb is an in-memory Repository implementation used by tests.
package dummydb

import (
	"sync"

	"github.com/virtuallab/portal/core/announce"
	"github.com/virtuallab/portal/core/ctf"
	"github.com/virtuallab/portal/core/notification"
	"github.com/virtuallab/portal/core/schedule"
	"github.com/virtuallab/portal/core/task"
	"github.com/virtuallab/portal/core/user"
	"github.com/virtuallab/portal/core/wiki"
)

type (
	DB struct {
		user         *userTable
		task         *taskTable
		announce     *announcementTable
		event        *eventTable
		notification *notificationTable
		wiki         *wikiTable
		ctf          *ctfTables
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	taskTable struct {
		sync.RWMutex
		table map[string]*task.Task
	}

	announcementTable struct {
		sync.RWMutex
		table map[string]*announce.Announcement
	}

	eventTable struct {
		sync.RWMutex
		table map[string]*schedule.Event
	}

	notificationTable struct {
		sync.RWMutex
		table map[string]*notification.Notification
	}

	wikiTable struct {
		sync.RWMutex
		table map[string]*wiki.Page // keyed by slug
	}

	ctfTables struct {
		sync.RWMutex
		challenges  map[string]*ctf.Challenge
		submissions []ctf.Submission
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:         &userTable{table: make(map[string]*user.User)},
		task:         &taskTable{table: make(map[string]*task.Task)},
		announce:     &announcementTable{table: make(map[string]*announce.Announcement)},
		event:        &eventTable{table: make(map[string]*schedule.Event)},
		notification: &notificationTable{table: make(map[string]*notification.Notification)},
		wiki:         &wikiTable{table: make(map[string]*wiki.Page)},
		ctf:          &ctfTables{challenges: make(map[string]*ctf.Challenge)},
	}
	return db, nil
}
