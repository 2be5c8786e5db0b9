// Package mqtt provides MQTT client connectivity for gridstore.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for offline detection
//
// # Topics
//
// Every topic lives under the configured prefix (default "gridstore"):
//
//	{prefix}/state/{kind}/{id}    retained snapshot after each applied update
//	{prefix}/update/{kind}/{id}   inbound patch requests
//	{prefix}/system/status        online/offline status (LWT)
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	err = client.Publish(client.Topics().State("Line", "L1"), snapshot, client.QoS(), true)
package mqtt
