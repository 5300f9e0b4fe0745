// ABOUTME: Room and room type commands (kamar, tipe)
// ABOUTME: List, add, update and delete against the backend

package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sultankost/kost/internal/client"
	"github.com/sultankost/kost/internal/kost"
)

var (
	roomStatus string
	roomFloor  int
	roomTypeID int
	roomSearch string
	roomNumber string

	typeName       string
	typePrice      string
	typeFacilities string
)

var kamarCmd = &cobra.Command{
	Use:     "kamar",
	Aliases: []string{"rooms"},
	Short:   "Manage rooms",
}

var kamarListCmd = &cobra.Command{
	Use:   "list",
	Short: "List rooms",
	Args:  cobra.NoArgs,
	Run:   run(runRoomList),
}

var kamarAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a room",
	Args:  cobra.NoArgs,
	Run:   run(runRoomAdd),
}

var kamarSetCmd = &cobra.Command{
	Use:   "set ID",
	Short: "Update a room",
	Long:  "Update a room. Only the flags given are changed.",
	Args:  cobra.ExactArgs(1),
	Run:   run(runRoomSet),
}

var kamarRmCmd = &cobra.Command{
	Use:   "rm ID",
	Short: "Delete a room",
	Args:  cobra.ExactArgs(1),
	Run:   run(runRoomRm),
}

var tipeCmd = &cobra.Command{
	Use:     "tipe",
	Aliases: []string{"types"},
	Short:   "Manage room types",
}

var tipeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List room types",
	Args:  cobra.NoArgs,
	Run:   run(runTypeList),
}

var tipeAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a room type",
	Args:  cobra.NoArgs,
	Run:   run(runTypeAdd),
}

var tipeSetCmd = &cobra.Command{
	Use:   "set ID",
	Short: "Update a room type",
	Long:  "Update a room type. Only the flags given are changed.",
	Args:  cobra.ExactArgs(1),
	Run:   run(runTypeSet),
}

var tipeRmCmd = &cobra.Command{
	Use:   "rm ID",
	Short: "Delete a room type",
	Args:  cobra.ExactArgs(1),
	Run:   run(runTypeRm),
}

func init() {
	rootCmd.AddCommand(kamarCmd, tipeCmd)
	kamarCmd.AddCommand(kamarListCmd, kamarAddCmd, kamarSetCmd, kamarRmCmd)
	tipeCmd.AddCommand(tipeListCmd, tipeAddCmd, tipeSetCmd, tipeRmCmd)

	kamarListCmd.Flags().StringVar(&roomStatus, "status", "", "Filter by status (KOSONG, ISI, MAINTENANCE)")
	kamarListCmd.Flags().IntVar(&roomFloor, "lantai", 0, "Filter by floor")
	kamarListCmd.Flags().IntVar(&roomTypeID, "tipe", 0, "Filter by room type ID")
	kamarListCmd.Flags().StringVar(&roomSearch, "search", "", "Search room numbers")
	kamarListCmd.Flags().IntVar(&listPage, "page", 1, "Page to show")
	kamarListCmd.Flags().IntVar(&listPerPage, "per-page", kost.DefaultPageSize, "Rows per page")

	for _, c := range []*cobra.Command{kamarAddCmd, kamarSetCmd} {
		c.Flags().StringVar(&roomNumber, "nomor", "", "Room number, e.g. A01")
		c.Flags().IntVar(&roomFloor, "lantai", 0, "Floor")
		c.Flags().IntVar(&roomTypeID, "tipe", 0, "Room type ID")
		c.Flags().StringVar(&roomStatus, "status", "", "Status (KOSONG, ISI, MAINTENANCE)")
	}

	for _, c := range []*cobra.Command{tipeAddCmd, tipeSetCmd} {
		c.Flags().StringVar(&typeName, "nama", "", "Type name, e.g. VIP")
		c.Flags().StringVar(&typePrice, "harga", "", "Monthly price, e.g. 1500000 or \"Rp 1.500.000\"")
		c.Flags().StringVar(&typeFacilities, "fasilitas", "", "Facilities, comma separated")
	}
}

// === ROOMS ===

func runRoomList(ctx context.Context, w io.Writer, _ []string) int {
	if roomStatus != "" {
		if err := client.ValidateStatus(strings.ToUpper(roomStatus)); err != nil {
			return fail(w, nil, err)
		}
	}

	e, err := authenticated(ctx)
	if err != nil {
		return fail(w, e, err)
	}

	rooms, err := e.api.ListRooms(ctx, client.RoomFilter{
		Status: roomStatus,
		Floor:  roomFloor,
		TypeID: roomTypeID,
		Search: roomSearch,
	})
	if err != nil {
		return fail(w, e, err)
	}

	if IsJSONOutput() {
		return printJSON(w, rooms)
	}

	writePage(w, rooms, "rooms", []string{"ID", "Kamar", "Lantai", "Tipe", "Harga", "Status"}, func(r client.Room) []string {
		price := "-"
		if r.TypeDetail != nil {
			price = kost.Rupiah(r.TypeDetail.MonthlyPrice)
		}
		return []string{strconv.Itoa(r.ID), r.Number, strconv.Itoa(r.Floor), r.TypeName(), price, r.Status}
	})
	return exitOK
}

func runRoomAdd(ctx context.Context, w io.Writer, _ []string) int {
	if roomNumber == "" || roomTypeID < 1 {
		return fail(w, nil, fmt.Errorf("--nomor and --tipe are required"))
	}
	floor := roomFloor
	if floor < 1 {
		floor = 1
	}

	e, err := authenticated(ctx)
	if err != nil {
		return fail(w, e, err)
	}

	room, err := e.api.CreateRoom(ctx, client.Room{
		Number: roomNumber,
		TypeID: roomTypeID,
		Floor:  floor,
		Status: strings.ToUpper(roomStatus),
	})
	if err != nil {
		return fail(w, e, err)
	}

	if IsJSONOutput() {
		return printJSON(w, room)
	}
	fmt.Fprintf(w, "Room %s added (ID %d)\n", room.Number, room.ID)
	return exitOK
}

func runRoomSet(ctx context.Context, w io.Writer, args []string) int {
	id, err := parseID(args[0])
	if err != nil {
		return fail(w, nil, err)
	}

	var update client.RoomUpdate
	if roomNumber != "" {
		update.Number = &roomNumber
	}
	if roomFloor > 0 {
		update.Floor = &roomFloor
	}
	if roomTypeID > 0 {
		update.TypeID = &roomTypeID
	}
	if roomStatus != "" {
		update.Status = &roomStatus
	}
	if update == (client.RoomUpdate{}) {
		return fail(w, nil, fmt.Errorf("nothing to update"))
	}

	e, err := authenticated(ctx)
	if err != nil {
		return fail(w, e, err)
	}

	room, err := e.api.UpdateRoom(ctx, id, update)
	if err != nil {
		return fail(w, e, err)
	}

	if IsJSONOutput() {
		return printJSON(w, room)
	}
	fmt.Fprintf(w, "Room %s updated\n", room.Number)
	return exitOK
}

func runRoomRm(ctx context.Context, w io.Writer, args []string) int {
	id, err := parseID(args[0])
	if err != nil {
		return fail(w, nil, err)
	}

	e, err := authenticated(ctx)
	if err != nil {
		return fail(w, e, err)
	}
	if err := e.api.DeleteRoom(ctx, id); err != nil {
		return fail(w, e, err)
	}
	fmt.Fprintf(w, "Room %d deleted\n", id)
	return exitOK
}

// === ROOM TYPES ===

func runTypeList(ctx context.Context, w io.Writer, _ []string) int {
	e, err := authenticated(ctx)
	if err != nil {
		return fail(w, e, err)
	}

	types, err := e.api.ListRoomTypes(ctx)
	if err != nil {
		return fail(w, e, err)
	}

	if IsJSONOutput() {
		return printJSON(w, types)
	}

	rows := make([][]string, 0, len(types))
	for _, t := range types {
		rows = append(rows, []string{strconv.Itoa(t.ID), t.Name, kost.Rupiah(t.MonthlyPrice), t.Facilities})
	}
	if len(rows) == 0 {
		fmt.Fprintln(w, "No room types found")
		return exitOK
	}
	fmt.Fprintln(w, renderTable([]string{"ID", "Tipe", "Harga/bulan", "Fasilitas"}, rows))
	return exitOK
}

func runTypeAdd(ctx context.Context, w io.Writer, _ []string) int {
	if typeName == "" || typePrice == "" {
		return fail(w, nil, fmt.Errorf("--nama and --harga are required"))
	}
	price, err := client.ParseAmount(typePrice)
	if err != nil {
		return fail(w, nil, err)
	}

	e, err := authenticated(ctx)
	if err != nil {
		return fail(w, e, err)
	}

	rt, err := e.api.CreateRoomType(ctx, client.RoomType{
		Name:         typeName,
		MonthlyPrice: price,
		Facilities:   typeFacilities,
	})
	if err != nil {
		return fail(w, e, err)
	}

	if IsJSONOutput() {
		return printJSON(w, rt)
	}
	fmt.Fprintf(w, "Room type %s added (ID %d, %s/bulan)\n", rt.Name, rt.ID, kost.Rupiah(rt.MonthlyPrice))
	return exitOK
}

func runTypeSet(ctx context.Context, w io.Writer, args []string) int {
	id, err := parseID(args[0])
	if err != nil {
		return fail(w, nil, err)
	}

	var update client.RoomTypeUpdate
	if typeName != "" {
		update.Name = &typeName
	}
	if typePrice != "" {
		price, err := client.ParseAmount(typePrice)
		if err != nil {
			return fail(w, nil, err)
		}
		update.MonthlyPrice = &price
	}
	if typeFacilities != "" {
		update.Facilities = &typeFacilities
	}
	if update == (client.RoomTypeUpdate{}) {
		return fail(w, nil, fmt.Errorf("nothing to update"))
	}

	e, err := authenticated(ctx)
	if err != nil {
		return fail(w, e, err)
	}

	rt, err := e.api.UpdateRoomType(ctx, id, update)
	if err != nil {
		return fail(w, e, err)
	}

	if IsJSONOutput() {
		return printJSON(w, rt)
	}
	fmt.Fprintf(w, "Room type %s updated\n", rt.Name)
	return exitOK
}

func runTypeRm(ctx context.Context, w io.Writer, args []string) int {
	id, err := parseID(args[0])
	if err != nil {
		return fail(w, nil, err)
	}

	e, err := authenticated(ctx)
	if err != nil {
		return fail(w, e, err)
	}
	if err := e.api.DeleteRoomType(ctx, id); err != nil {
		return fail(w, e, err)
	}
	fmt.Fprintf(w, "Room type %d deleted\n", id)
	return exitOK
}
