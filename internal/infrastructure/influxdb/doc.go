// Package influxdb writes component update telemetry to InfluxDB v2 through
// the official influxdb-client-go library.
//
// Every applied update whose diff carries numeric fields becomes one point
// of the "component_updates" measurement, tagged with the component kind and
// identifier. Changing a line's resistance thus leaves a time series of r
// per line.
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	client.WriteComponentUpdate("Line", "L1", map[string]any{"r": 10.0}, time.Now())
//
// Writes never block; batch errors go to the SetOnError callback.
package influxdb
