package ws

const (
	writeWaitSecs  = 10
	pongWaitSecs   = 60
	sendBufferSize = 256
)

type Hubs struct {
	Dashboard *DashboardHub
	Student   *StudentHub
}

func NewHubs() *Hubs {
	return &Hubs{
		Dashboard: NewDashboardHub(),
		Student:   NewStudentHub(),
	}
}

// Run starts both hub loops.
func (h *Hubs) Run() {
	go h.Dashboard.Run()
	go h.Student.Run()
}
