package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/itexoft/procvd/internal/procmodel"
)

type processStatus struct {
	Process     string    `json:"process"`
	DisplayPath string    `json:"displayPath"`
	OutputMode  string    `json:"outputMode"`
	LastEvent   *eventDTO `json:"lastEvent,omitempty"`
	RecentLines []lineDTO `json:"recentLines,omitempty"`
}

type groupStatus struct {
	Group        string          `json:"group"`
	RestartMode  string          `json:"restartMode"`
	Dependencies []string        `json:"dependencies"`
	Processes    []processStatus `json:"processes"`
}

type eventDTO struct {
	Kind      string `json:"kind"`
	Timestamp string `json:"timestamp"`
	ExitCode  *int   `json:"exitCode,omitempty"`
	Message   string `json:"message,omitempty"`
}

type lineDTO struct {
	Stream    string `json:"stream"`
	Line      string `json:"line"`
	Timestamp string `json:"timestamp"`
}

func (s *Server) listGroups(c *gin.Context) {
	names := make([]string, 0, len(s.cfg.Groups))
	for name := range s.cfg.Groups {
		names = append(names, name)
	}

	out := make([]groupStatus, 0, len(names))
	for _, name := range names {
		out = append(out, s.buildGroupStatus(name))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getGroup(c *gin.Context) {
	name := c.Param("name")
	if _, ok := s.cfg.Groups[name]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "unknown group"})
		return
	}
	c.JSON(http.StatusOK, s.buildGroupStatus(name))
}

func (s *Server) getOutput(c *gin.Context) {
	name := c.Param("name")
	group, ok := s.cfg.Groups[name]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "unknown group"})
		return
	}

	processName := c.Query("process")
	lines := 100
	if v := c.Query("lines"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			lines = n
		}
	}

	for _, proc := range group.Processes {
		if processName != "" && proc.Key.Process != processName {
			continue
		}
		c.JSON(http.StatusOK, toLineDTOs(s.buffer.RecentLines(proc.Key, lines)))
		return
	}

	c.JSON(http.StatusNotFound, gin.H{"message": "unknown process"})
}

func (s *Server) postRestart(c *gin.Context) {
	name := c.Param("name")
	if !s.top.RequestRestart(name) {
		c.JSON(http.StatusNotFound, gin.H{"message": "unknown group"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "restart requested"})
}

func (s *Server) buildGroupStatus(name string) groupStatus {
	group := s.cfg.Groups[name]

	out := groupStatus{
		Group:        name,
		RestartMode:  group.RestartMode.String(),
		Dependencies: group.Dependencies,
		Processes:    make([]processStatus, 0, len(group.Processes)),
	}

	for _, proc := range group.Processes {
		ps := processStatus{
			Process:     proc.Key.Process,
			DisplayPath: proc.DisplayPath,
			OutputMode:  proc.OutputMode.String(),
		}
		if evt, ok := s.buffer.LastEvent(proc.Key); ok {
			ps.LastEvent = toEventDTO(evt)
		}
		if proc.OutputMode == procmodel.OutputFile {
			ps.RecentLines = toLineDTOs(s.buffer.RecentLines(proc.Key, 20))
		}
		out.Processes = append(out.Processes, ps)
	}

	return out
}

func toEventDTO(evt procmodel.OutputEvent) *eventDTO {
	return &eventDTO{
		Kind:      evt.Kind.String(),
		Timestamp: evt.Timestamp.Format(timeLayout),
		ExitCode:  evt.ExitCode,
		Message:   evt.Message,
	}
}

func toLineDTOs(lines []procmodel.OutputLine) []lineDTO {
	out := make([]lineDTO, 0, len(lines))
	for _, l := range lines {
		out = append(out, lineDTO{
			Stream:    l.Stream.String(),
			Line:      l.Line,
			Timestamp: l.Timestamp.Format(timeLayout),
		})
	}
	return out
}

const timeLayout = "2006-01-02T15:04:05.000Z07:00"
