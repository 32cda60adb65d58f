package main

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medspa/medspa/internal/config"
	"github.com/medspa/medspa/internal/domain/booking"
	"github.com/medspa/medspa/internal/engine"
	"github.com/medspa/medspa/internal/platform/db"
)

// seedLocation fills one clinic location with a realistic demo catalog and a
// week of bookings. Appointments go through the booking service so they pass
// the same conflict and resource checks as live traffic.
func seedLocation(ctx context.Context, pool *pgxpool.Pool, cfg *config.Config, location string) error {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	schema := fmt.Sprintf("location_%s", location)
	if _, err := conn.Exec(ctx, fmt.Sprintf("SET search_path TO %s, shared, public", schema)); err != nil {
		return fmt.Errorf("set search_path: %w", err)
	}

	ctx = context.WithValue(ctx, db.LocationIDKey, location)
	ctx = context.WithValue(ctx, db.DBConnKey, conn)

	policy, err := engine.ParsePolicy(cfg.OverridePolicy)
	if err != nil {
		return err
	}
	svc := booking.NewService(
		booking.NewAppointmentRepoPG(pool),
		booking.NewShiftRepoPG(pool),
		booking.NewPractitionerRepoPG(pool),
		booking.NewServiceRepoPG(pool),
		booking.NewRoomRepoPG(pool),
		booking.NewResourceRepoPG(pool),
		policy,
		engine.TagAliases(cfg.ParsedAliases()),
	)

	gofakeit.Seed(time.Now().UnixNano())

	fmt.Printf("Seeding location: %s\n", location)

	rooms, err := seedRooms(ctx, svc)
	if err != nil {
		return fmt.Errorf("seed rooms: %w", err)
	}

	laserPool, err := seedDevices(ctx, svc)
	if err != nil {
		return fmt.Errorf("seed devices: %w", err)
	}

	services, err := seedServices(ctx, svc, laserPool)
	if err != nil {
		return fmt.Errorf("seed services: %w", err)
	}

	practitioners, err := seedPractitioners(ctx, svc)
	if err != nil {
		return fmt.Errorf("seed practitioners: %w", err)
	}

	if err := seedShifts(ctx, svc, practitioners); err != nil {
		return fmt.Errorf("seed shifts: %w", err)
	}

	booked, err := seedAppointments(ctx, svc, practitioners, services, rooms)
	if err != nil {
		return fmt.Errorf("seed appointments: %w", err)
	}

	fmt.Printf("Seed complete: %d practitioners, %d services, %d rooms, %d appointments.\n",
		len(practitioners), len(services), len(rooms), booked)
	return nil
}

func seedRooms(ctx context.Context, svc *booking.Service) ([]*booking.Room, error) {
	names := []string{"Treatment Room 1", "Treatment Room 2", "Treatment Room 3", "Laser Suite"}
	rooms := make([]*booking.Room, 0, len(names))
	for _, name := range names {
		r := &booking.Room{Name: name, Active: true}
		if err := svc.CreateRoom(ctx, r); err != nil {
			return nil, err
		}
		rooms = append(rooms, r)
	}
	return rooms, nil
}

func seedDevices(ctx context.Context, svc *booking.Service) (*booking.ResourcePool, error) {
	pool := &booking.ResourcePool{Name: "IPL Laser Fleet"}
	if err := svc.CreateResourcePool(ctx, pool); err != nil {
		return nil, err
	}
	for i := 1; i <= 2; i++ {
		res := &booking.Resource{
			PoolID: pool.ID,
			Name:   fmt.Sprintf("IPL Unit %d", i),
			Active: true,
		}
		if err := svc.CreateResource(ctx, res); err != nil {
			return nil, err
		}
	}
	return pool, nil
}

func seedServices(ctx context.Context, svc *booking.Service, laserPool *booking.ResourcePool) ([]*booking.TreatmentService, error) {
	catalog := []*booking.TreatmentService{
		{
			Name:                 "Laser Hair Removal",
			DurationMinutes:      45,
			PostTreatmentMinutes: 10,
			RequiredCapabilities: []string{"laser"},
			Tags:                 []string{"laser"},
			Requirements:         []booking.Requirement{{PoolID: laserPool.ID, Quantity: 1}},
			Active:               true,
		},
		{
			Name:                 "Chemical Peel",
			DurationMinutes:      30,
			PostTreatmentMinutes: 15,
			RequiredCapabilities: []string{"peel"},
			Tags:                 []string{"peel"},
			Active:               true,
		},
		{
			Name:                 "Botox Consultation",
			DurationMinutes:      20,
			RequiredCapabilities: []string{"injectables"},
			Active:               true,
		},
		{
			Name:            "Signature Facial",
			DurationMinutes: 60,
			Active:          true,
		},
		{
			Name:            "Deep Tissue Massage",
			DurationMinutes: 60,
			Active:          true,
		},
	}

	for _, s := range catalog {
		if err := svc.CreateTreatmentService(ctx, s); err != nil {
			return nil, err
		}
	}
	return catalog, nil
}

func seedPractitioners(ctx context.Context, svc *booking.Service) ([]*booking.Practitioner, error) {
	capabilitySets := [][]string{
		{"laser", "peel"},
		{"laser"},
		{"injectables", "peel"},
		{"injectables"},
		nil,
	}
	roles := []string{"aesthetician", "laser technician", "nurse injector", "nurse injector", "massage therapist"}

	practitioners := make([]*booking.Practitioner, 0, len(capabilitySets))
	for i, caps := range capabilitySets {
		role := roles[i]
		p := &booking.Practitioner{
			Name:         gofakeit.Name(),
			Role:         &role,
			Capabilities: caps,
			Active:       true,
		}
		if err := svc.CreatePractitioner(ctx, p); err != nil {
			return nil, err
		}
		practitioners = append(practitioners, p)
	}
	return practitioners, nil
}

func seedShifts(ctx context.Context, svc *booking.Service, practitioners []*booking.Practitioner) error {
	start := time.Now().Truncate(24 * time.Hour)
	for day := 0; day < 14; day++ {
		date := start.AddDate(0, 0, day)
		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		for _, p := range practitioners {
			sh := &booking.Shift{
				PractitionerID: p.ID,
				StartTime:      time.Date(date.Year(), date.Month(), date.Day(), 9, 0, 0, 0, time.Local),
				EndTime:        time.Date(date.Year(), date.Month(), date.Day(), 17, 0, 0, 0, time.Local),
				Tags:           p.Capabilities,
			}
			if err := svc.CreateShift(ctx, sh); err != nil {
				return err
			}
		}
	}
	return nil
}

// seedAppointments books random slots over the coming week. Refused bookings
// are expected once the calendar fills up and are simply skipped.
func seedAppointments(ctx context.Context, svc *booking.Service, practitioners []*booking.Practitioner, services []*booking.TreatmentService, rooms []*booking.Room) (int, error) {
	start := time.Now().Truncate(24 * time.Hour)
	booked := 0

	for attempt := 0; attempt < 120; attempt++ {
		p := practitioners[gofakeit.Number(0, len(practitioners)-1)]
		s := services[gofakeit.Number(0, len(services)-1)]
		day := start.AddDate(0, 0, gofakeit.Number(1, 7))
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}

		hour := gofakeit.Number(9, 15)
		minute := []int{0, 15, 30, 45}[gofakeit.Number(0, 3)]
		clientName := gofakeit.Name()
		clientID := uuid.New()
		roomID := rooms[gofakeit.Number(0, len(rooms)-1)].ID

		in := booking.BookingInput{
			PractitionerID: p.ID,
			ServiceID:      s.ID,
			ClientID:       &clientID,
			ClientName:     &clientName,
			RoomID:         &roomID,
			StartTime:      time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.Local),
		}

		result, err := svc.Book(ctx, in)
		if err != nil {
			return booked, err
		}
		if result.Appointment != nil {
			booked++
		}
	}
	return booked, nil
}
