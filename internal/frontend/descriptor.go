package frontend

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
)

// ProtoFile is the descriptor path of the Frontend service, as written in
// api/udyr/v1/frontend.proto
const ProtoFile = "udyr/v1/frontend.proto"

// fileDescriptor describes the service for server reflection. It must stay
// in step with api/udyr/v1/frontend.proto and serviceDesc.
func fileDescriptor() *descriptorpb.FileDescriptorProto {
	method := func(name string) *descriptorpb.MethodDescriptorProto {
		return &descriptorpb.MethodDescriptorProto{
			Name:       proto.String(name),
			InputType:  proto.String(".google.protobuf.StringValue"),
			OutputType: proto.String(".google.protobuf.Struct"),
		}
	}

	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String(ProtoFile),
		Package: proto.String("udyr.v1"),
		Dependency: []string{
			"google/protobuf/struct.proto",
			"google/protobuf/wrappers.proto",
		},
		Service: []*descriptorpb.ServiceDescriptorProto{{
			Name: proto.String("Frontend"),
			Method: []*descriptorpb.MethodDescriptorProto{
				method("Scan"),
				method("Parse"),
				method("ParseProgram"),
			},
		}},
		Options: &descriptorpb.FileOptions{
			GoPackage: proto.String("github.com/msto63/udyr/internal/frontend"),
		},
		Syntax: proto.String("proto3"),
	}
}

func init() {
	fd, err := protodesc.NewFile(fileDescriptor(), protoregistry.GlobalFiles)
	if err != nil {
		panic(fmt.Sprintf("frontend: invalid descriptor %s: %v", ProtoFile, err))
	}
	if err := protoregistry.GlobalFiles.RegisterFile(fd); err != nil {
		panic(fmt.Sprintf("frontend: register %s: %v", ProtoFile, err))
	}
}
