// ABOUTME: Occupancy figures derived from the room list
// ABOUTME: Counts rooms by status and computes the occupancy rate

package kost

import "github.com/sultankost/kost/internal/client"

// RoomCounts tallies rooms by status
type RoomCounts struct {
	Total       int
	Occupied    int
	Vacant      int
	Maintenance int
}

func CountRooms(rooms []client.Room) RoomCounts {
	c := RoomCounts{Total: len(rooms)}
	for _, r := range rooms {
		switch r.Status {
		case client.StatusOccupied:
			c.Occupied++
		case client.StatusVacant:
			c.Vacant++
		case client.StatusMaintenance:
			c.Maintenance++
		}
	}
	return c
}

// Occupancy returns occupied rooms as a percentage of all rooms
func (c RoomCounts) Occupancy() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Occupied) / float64(c.Total) * 100
}

// VacantRooms returns rooms available for check-in
func VacantRooms(rooms []client.Room) []client.Room {
	return Filter(rooms, func(r client.Room) bool {
		return r.Status == client.StatusVacant
	})
}

// FilterRooms keeps rooms matching status (empty for any) whose number or
// type name contains query
func FilterRooms(rooms []client.Room, query, status string) []client.Room {
	return Filter(rooms, func(r client.Room) bool {
		if status != "" && r.Status != status {
			return false
		}
		return Matches(query, r.Number, r.TypeName())
	})
}
