package grpc

import (
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const ServiceName = "hypernet.announcements"

type App struct {
	srv    *grpc.Server
	health *health.Server
}

func NewGrpc() *App {
	server := &App{
		srv:    grpc.NewServer(),
		health: health.NewServer(),
	}

	healthpb.RegisterHealthServer(server.srv, server.health)
	reflection.Register(server.srv)

	server.SetServing(false)
	return server
}

// SetServing flips both the overall and the named service status.
func (v *App) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	v.health.SetServingStatus("", status)
	v.health.SetServingStatus(ServiceName, status)
}

func (v *App) Listen(bind string) error {
	listener, err := net.Listen("tcp", bind)
	if err != nil {
		return err
	}

	return v.srv.Serve(listener)
}

func (v *App) Stop() {
	v.health.Shutdown()
	v.srv.GracefulStop()
}
