// Package feed exports derived dispatch events as a GTFS-realtime feed.
package feed

import (
	"fmt"
	"time"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	"tarediiran-industries.com/simrail-edr/internal/edr"
)

// Build emits one TripUpdate per train with a single StopTimeUpdate at
// station. Passing fills both arrival and departure.
func Build(station edr.Station, events []edr.Event, now time.Time) *gtfs.FeedMessage {
	message := &gtfs.FeedMessage{
		Header: &gtfs.FeedHeader{
			GtfsRealtimeVersion: proto.String("2.0"),
			Incrementality:      gtfs.FeedHeader_FULL_DATASET.Enum(),
			Timestamp:           proto.Uint64(uint64(now.Unix())),
		},
	}

	stopID := station.Prefix
	if stopID == "" {
		stopID = station.Name
	}

	updates := map[string]*gtfs.TripUpdate_StopTimeUpdate{}
	for _, event := range events {
		update, ok := updates[event.TrainNumber]
		if !ok {
			update = &gtfs.TripUpdate_StopTimeUpdate{
				StopId:       proto.String(stopID),
				StopSequence: proto.Uint32(uint32(max(event.StopIndex, 0))),
			}
			updates[event.TrainNumber] = update
			message.Entity = append(message.Entity, &gtfs.FeedEntity{
				Id: proto.String(fmt.Sprintf("%s-%s", event.TrainNumber, stopID)),
				TripUpdate: &gtfs.TripUpdate{
					Trip: &gtfs.TripDescriptor{
						TripId: proto.String(event.TrainNumber),
					},
					Vehicle: &gtfs.VehicleDescriptor{
						Label: proto.String(event.Train),
					},
					StopTimeUpdate: []*gtfs.TripUpdate_StopTimeUpdate{update},
					Timestamp:      proto.Uint64(uint64(now.Unix())),
				},
			})
		}

		switch event.Kind {
		case edr.Passing:
			update.Arrival = stopTimeEvent(event)
			update.Departure = stopTimeEvent(event)
		case edr.Entering:
			update.Arrival = stopTimeEvent(event)
		case edr.Departing:
			update.Departure = stopTimeEvent(event)
		}
	}
	return message
}

func stopTimeEvent(event edr.Event) *gtfs.TripUpdate_StopTimeEvent {
	stopTime := &gtfs.TripUpdate_StopTimeEvent{
		Time: proto.Int64(event.EffectiveTime().Unix()),
	}
	if event.Time != nil {
		stopTime.Delay = proto.Int32(int32(event.Delay() / time.Second))
	}
	return stopTime
}

// Marshal encodes the feed as protobuf, or as indented protojson when
// format is "json".
func Marshal(message *gtfs.FeedMessage, format string) ([]byte, string, error) {
	switch format {
	case "", "pb", "proto":
		data, err := proto.Marshal(message)
		return data, "application/x-protobuf", err
	case "json":
		options := protojson.MarshalOptions{Multiline: true}
		data, err := options.Marshal(message)
		return data, "application/json", err
	default:
		return nil, "", fmt.Errorf("unknown feed format %q", format)
	}
}
